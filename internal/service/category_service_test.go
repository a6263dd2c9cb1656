package service

import (
	"context"
	"errors"
	"testing"

	"catalog-api/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_CategoryNamesAreUnique(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("creating a second category with the same name fails", prop.ForAll(
		func(name string) bool {
			service := NewCategoryService(newMockCategoryRepository())
			ctx := context.Background()

			first, err := service.Create(ctx, CreateCategoryInput{Name: name})
			if err != nil {
				t.Logf("FAIL: First create failed: %v", err)
				return false
			}

			_, err = service.Create(ctx, CreateCategoryInput{Name: name})
			if !errors.Is(err, repository.ErrCategoryNameTaken) {
				t.Logf("FAIL: Expected ErrCategoryNameTaken, got: %v", err)
				return false
			}

			// The first category is still retrievable
			stored, err := service.GetByID(ctx, first.ID)
			if err != nil || stored.Name != first.Name {
				t.Logf("FAIL: Original category lost after duplicate attempt")
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Z][a-z]{2,15}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCreateCategory_RequiresName(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepository())

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := service.Create(context.Background(), CreateCategoryInput{Name: name})
		if !errors.Is(err, ErrNameRequired) {
			t.Errorf("Create(%q): expected ErrNameRequired, got %v", name, err)
		}
	}
}

func TestCreateCategory_TrimsName(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepository())

	category, err := service.Create(context.Background(), CreateCategoryInput{Name: "  Shoes  "})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if category.Name != "Shoes" {
		t.Errorf("Expected trimmed name %q, got %q", "Shoes", category.Name)
	}
}

func TestUpdateCategory_FillIfProvided(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepository())
	ctx := context.Background()

	category, err := service.Create(ctx, CreateCategoryInput{
		Name:        "Shoes",
		Description: "All footwear",
		Image:       "/uploads/image-1.png",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Only the description is supplied; name and image must survive
	updated, err := service.Update(ctx, category.ID, UpdateCategoryInput{
		Description: "Footwear and accessories",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Name != "Shoes" {
		t.Errorf("Name changed unexpectedly: %q", updated.Name)
	}
	if updated.Image != "/uploads/image-1.png" {
		t.Errorf("Image changed unexpectedly: %q", updated.Image)
	}
	if updated.Description != "Footwear and accessories" {
		t.Errorf("Description not updated: %q", updated.Description)
	}
}

func TestUpdateCategory_RenameCollision(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepository())
	ctx := context.Background()

	if _, err := service.Create(ctx, CreateCategoryInput{Name: "Shoes"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	other, err := service.Create(ctx, CreateCategoryInput{Name: "Bags"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = service.Update(ctx, other.ID, UpdateCategoryInput{Name: "Shoes"})
	if !errors.Is(err, repository.ErrCategoryNameTaken) {
		t.Errorf("Expected ErrCategoryNameTaken on rename collision, got %v", err)
	}
}

func TestCategory_NotFound(t *testing.T) {
	service := NewCategoryService(newMockCategoryRepository())
	ctx := context.Background()
	id := uuid.New()

	if _, err := service.GetByID(ctx, id); !errors.Is(err, repository.ErrCategoryNotFound) {
		t.Errorf("GetByID: expected ErrCategoryNotFound, got %v", err)
	}
	if _, err := service.Update(ctx, id, UpdateCategoryInput{Name: "X"}); !errors.Is(err, repository.ErrCategoryNotFound) {
		t.Errorf("Update: expected ErrCategoryNotFound, got %v", err)
	}
	if err := service.Delete(ctx, id); !errors.Is(err, repository.ErrCategoryNotFound) {
		t.Errorf("Delete: expected ErrCategoryNotFound, got %v", err)
	}
}
