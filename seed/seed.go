package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ray-remotestate/swiftserve/models"
)

//go:embed menu.yaml
var menuYAML []byte

type MenuSeeder interface {
	CountMenuItems(ctx context.Context) (int, error)
	SeedMenuItems(ctx context.Context, items []models.MenuItem) error
}

// Catalogue decodes the embedded starter menu.
func Catalogue() ([]models.MenuItem, error) {
	return parse(menuYAML)
}

func parse(data []byte) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode menu catalogue: %w", err)
	}
	for i := range items {
		if items[i].ID == "" {
			return nil, fmt.Errorf("menu catalogue entry %d has no id", i)
		}
		if items[i].Tags == nil {
			items[i].Tags = []string{}
		}
		if items[i].PreparationTime == 0 {
			items[i].PreparationTime = models.DefaultPreparationTime
		}
	}
	return items, nil
}

// Menu loads the catalogue into the store when the menu is empty. It reports
// how many items were inserted.
func Menu(ctx context.Context, store MenuSeeder) (int, error) {
	count, err := store.CountMenuItems(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logrus.Debugf("menu already has %d items, skipping seed", count)
		return 0, nil
	}
	items, err := Catalogue()
	if err != nil {
		return 0, err
	}
	if err := store.SeedMenuItems(ctx, items); err != nil {
		return 0, fmt.Errorf("seed menu: %w", err)
	}
	logrus.Infof("seeded menu with %d items", len(items))
	return len(items), nil
}
