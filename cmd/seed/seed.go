package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raushankrgupta/phoneswap-server/models"
	"github.com/raushankrgupta/phoneswap-server/store"
)

// DefaultCategories are the brands offered on a fresh install.
var DefaultCategories = []models.ProductCategory{
	{Name: "apple", Label: "Apple"},
	{Name: "samsung", Label: "Samsung"},
	{Name: "xiaomi", Label: "Xiaomi"},
	{Name: "oneplus", Label: "OnePlus"},
	{Name: "google", Label: "Google Pixel"},
}

type seedResult struct {
	AdminCreated  bool
	AdminPromoted bool
	Categories    int
}

// seed makes sure email belongs to an admin and that every default category
// exists. Running it twice changes nothing.
func seed(ctx context.Context, st store.Store, email, name string, categories []models.ProductCategory) (seedResult, error) {
	var out seedResult

	// name only applies to a newly created account
	admin, err := st.Users().FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		res, upsertErr := st.Users().Upsert(ctx, models.User{Email: email, Name: name, Role: models.RoleAdmin, CreatedAt: time.Now()})
		if upsertErr != nil {
			return out, fmt.Errorf("create admin: %w", upsertErr)
		}
		out.AdminCreated = res.Upserted > 0
		admin, err = st.Users().FindByEmail(ctx, email)
	}
	if err != nil {
		return out, fmt.Errorf("load admin: %w", err)
	}
	if admin.Role != models.RoleAdmin {
		if _, err := st.Users().SetRole(ctx, admin.ID, models.RoleAdmin); err != nil {
			return out, fmt.Errorf("promote admin: %w", err)
		}
		out.AdminPromoted = true
	}

	existing, err := st.Categories().List(ctx)
	if err != nil {
		return out, fmt.Errorf("list categories: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c.Name] = true
	}
	for _, c := range categories {
		if have[c.Name] {
			continue
		}
		c := c
		if err := st.Categories().Insert(ctx, &c); err != nil {
			return out, fmt.Errorf("insert category %s: %w", c.Name, err)
		}
		out.Categories++
	}
	return out, nil
}
