// Package profile keeps the minimal learner record: an email and an optional
// full name, from which the display name is derived.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/codiz/internal/store"
)

// FallbackName is shown when no usable email is stored.
const FallbackName = "Learner"

const (
	keyEmail = "profile.email"
	keyName  = "profile.name"
)

// Store is the async key/value contract the profile is persisted through.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Profile is the learner record.
type Profile struct {
	Email string
	Name  string
}

// DisplayName is what the feedback screen greets the learner with.
func (p Profile) DisplayName() string {
	return DisplayName(p.Email, p.Name)
}

// Load reads the profile. Missing keys yield empty fields, not an error.
func Load(ctx context.Context, s Store) (Profile, error) {
	var p Profile
	var err error
	if p.Email, err = get(ctx, s, keyEmail); err != nil {
		return Profile{}, err
	}
	if p.Name, err = get(ctx, s, keyName); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Save writes the profile after validating the email.
func Save(ctx context.Context, s Store, p Profile) error {
	p.Email = strings.TrimSpace(p.Email)
	if p.Email != "" && !ValidEmail(p.Email) {
		return fmt.Errorf("invalid email %q", p.Email)
	}
	if err := s.Set(ctx, keyEmail, p.Email); err != nil {
		return fmt.Errorf("save email: %w", err)
	}
	if err := s.Set(ctx, keyName, strings.TrimSpace(p.Name)); err != nil {
		return fmt.Errorf("save name: %w", err)
	}
	return nil
}

func get(ctx context.Context, s Store, key string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", key, err)
	}
	return v, nil
}

// ValidEmail is a light shape check: something@something.
func ValidEmail(email string) bool {
	local, domain, ok := strings.Cut(email, "@")
	return ok && local != "" && domain != "" && !strings.ContainsAny(email, " \t")
}

// DisplayName derives a name from an email such as "ana.torres@uni.edu" ->
// "Ana Torres". A non-empty fullName always wins.
func DisplayName(email, fullName string) string {
	if n := strings.TrimSpace(fullName); n != "" {
		return n
	}
	local, _, ok := strings.Cut(strings.TrimSpace(email), "@")
	if !ok || local == "" {
		return FallbackName
	}
	parts := strings.Split(local, ".")
	var names []string
	for _, p := range parts[:min(2, len(parts))] {
		if p = capitalize(p); p != "" {
			names = append(names, p)
		}
	}
	if len(names) == 0 {
		return FallbackName
	}
	return strings.Join(names, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
