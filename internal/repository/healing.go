package repository

import (
	"crypto/rand"
	"math/big"

	"github.com/staranysa/TheHappyHaul/internal/models"
)

const (
	tokenAlphabet       = "0123456789abcdefghijklmnopqrstuvwxyz"
	tokenFragmentLength = 13
)

// GenerateShareToken returns two concatenated random base-36 fragments.
// Tokens are not checked against existing ones.
func GenerateShareToken() string {
	buf := make([]byte, 0, 2*tokenFragmentLength)
	alphabetSize := big.NewInt(int64(len(tokenAlphabet)))
	for i := 0; i < 2*tokenFragmentLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			panic("crypto/rand unavailable: " + err.Error())
		}
		buf = append(buf, tokenAlphabet[n.Int64()])
	}
	return string(buf)
}

// document is a decoded JSON object. Healing works on this generic shape so
// that presence checks see exactly what was stored and unknown fields survive.
type document map[string]any

// objects returns the JSON objects in the array stored under key.
func (d document) objects(key string) []document {
	list, _ := d[key].([]any)
	out := make([]document, 0, len(list))
	for _, v := range list {
		if obj, ok := v.(map[string]any); ok {
			out = append(out, document(obj))
		}
	}
	return out
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case float64:
		return val != 0
	default:
		return true
	}
}

// healingStep brings a loaded document up to the current shape. Each step is
// idempotent and reports whether it changed anything.
type healingStep struct {
	name  string
	apply func(doc document) bool
}

// datasetHealing runs in order on every wishlist load.
var datasetHealing = []healingStep{
	{name: "share-token", apply: healShareTokens},
	{name: "purchase-defaults", apply: healPurchaseDefaults},
	{name: "owner-backfill", apply: healOwnerBackfill},
}

// userHealing runs in order on every users load.
var userHealing = []healingStep{
	{name: "legacy-password", apply: healLegacyPasswords},
}

func heal(doc document, steps []healingStep) (fired []string) {
	for _, step := range steps {
		if step.apply(doc) {
			fired = append(fired, step.name)
		}
	}
	return fired
}

func healShareTokens(doc document) bool {
	changed := false
	for _, kid := range doc.objects("kids") {
		if !truthy(kid["shareToken"]) {
			kid["shareToken"] = GenerateShareToken()
			changed = true
		}
	}
	return changed
}

func healPurchaseDefaults(doc document) bool {
	changed := false
	for _, kid := range doc.objects("kids") {
		for _, item := range kid.objects("wishlist") {
			if _, ok := item["purchased"]; !ok {
				item["purchased"] = false
				changed = true
			}
			if _, ok := item["purchasedBy"]; !ok {
				item["purchasedBy"] = ""
				changed = true
			}
		}
	}
	return changed
}

// healOwnerBackfill runs once per dataset: after it sets migrated, kids
// without an owner are left alone.
func healOwnerBackfill(doc document) bool {
	if truthy(doc["migrated"]) {
		return false
	}
	for _, kid := range doc.objects("kids") {
		if !truthy(kid["userId"]) {
			kid["userId"] = models.OwnerSentinel
		}
	}
	doc["migrated"] = true
	return true
}

func healLegacyPasswords(doc document) bool {
	changed := false
	for _, user := range doc.objects("users") {
		legacy, ok := user["password"]
		if !ok {
			continue
		}
		if !truthy(user["passwordHash"]) {
			user["passwordHash"] = legacy
		}
		delete(user, "password")
		changed = true
	}
	return changed
}
