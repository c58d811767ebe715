// Package storage defines the durable key-value port used by the wizard and
// its collaborators, plus an in-memory adapter.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var ErrEmptyKey = errors.New("storage: empty key")

// KeyValueStore is the durable get/set contract. SetMany writes all pairs
// atomically: either every value is visible afterwards or none is.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, values map[string]string) error
}

// SessionKeys names the durable entries belonging to one wizard session.
type SessionKeys struct {
	SelectedPlan   string
	AnalysisResult string
	BusinessInputs string
}

func KeysFor(sessionID string) SessionKeys {
	prefix := fmt.Sprintf("session/%s/", sessionID)
	return SessionKeys{
		SelectedPlan:   prefix + "selected_plan",
		AnalysisResult: prefix + "analysis_result",
		BusinessInputs: prefix + "business_inputs",
	}
}

// CheckKeys rejects empty keys; adapters call it before writing.
func CheckKeys(values map[string]string) error {
	for k := range values {
		if k == "" {
			return ErrEmptyKey
		}
	}
	return nil
}
