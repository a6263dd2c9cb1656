package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

type productFixture struct {
	products      ProductService
	categories    CategoryService
	subCategories SubCategoryService
	productRepo   *mockProductRepository
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()
	categoryRepo := newMockCategoryRepository()
	subCategoryRepo := newMockSubCategoryRepository()
	productRepo := newMockProductRepository()
	return &productFixture{
		products:      NewProductService(productRepo, categoryRepo, subCategoryRepo),
		categories:    NewCategoryService(categoryRepo),
		subCategories: NewSubCategoryService(subCategoryRepo, categoryRepo),
		productRepo:   productRepo,
	}
}

func (f *productFixture) mustCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	category, err := f.categories.Create(context.Background(), CreateCategoryInput{Name: name})
	if err != nil {
		t.Fatalf("Create category %q failed: %v", name, err)
	}
	return category
}

func (f *productFixture) mustSubCategory(t *testing.T, name string, categoryID uuid.UUID) *domain.SubCategory {
	t.Helper()
	subCategory, err := f.subCategories.Create(context.Background(), CreateSubCategoryInput{
		Name:       name,
		CategoryID: categoryID,
	})
	if err != nil {
		t.Fatalf("Create sub-category %q failed: %v", name, err)
	}
	return subCategory
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestCreateProduct_RequiresCode(t *testing.T) {
	f := newProductFixture(t)
	category := f.mustCategory(t, "Shoes")

	_, err := f.products.Create(context.Background(), CreateProductInput{
		Name:       "Runner",
		CategoryID: category.ID,
	})
	if !errors.Is(err, ErrCodeRequired) {
		t.Errorf("Expected ErrCodeRequired, got %v", err)
	}
}

func TestProperty_ProductCodesAreGloballyUnique(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("a taken code is rejected even in a different category", prop.ForAll(
		func(code string) bool {
			f := newProductFixture(t)
			ctx := context.Background()
			first := f.mustCategory(t, "First")
			second := f.mustCategory(t, "Second")

			if _, err := f.products.Create(ctx, CreateProductInput{
				Name:        "One",
				ProductCode: code,
				CategoryID:  first.ID,
			}); err != nil {
				t.Logf("FAIL: First create failed: %v", err)
				return false
			}

			_, err := f.products.Create(ctx, CreateProductInput{
				Name:        "Two",
				ProductCode: code,
				CategoryID:  second.ID,
			})
			if !errors.Is(err, repository.ErrProductCodeTaken) {
				t.Logf("FAIL: Expected ErrProductCodeTaken, got: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[A-Z]{2,4}-[0-9]{3,6}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCreateProduct_CategoryMustExist(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.products.Create(context.Background(), CreateProductInput{
		Name:        "Runner",
		ProductCode: "RUN-001",
		CategoryID:  uuid.New(),
	})
	if !errors.Is(err, repository.ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestCreateProduct_SubCategoryMustBelongToCategory(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	shoes := f.mustCategory(t, "Shoes")
	bags := f.mustCategory(t, "Bags")
	totes := f.mustSubCategory(t, "Totes", bags.ID)

	// Subcategory belongs to bags, product claims shoes
	_, err := f.products.Create(ctx, CreateProductInput{
		Name:          "Runner",
		ProductCode:   "RUN-001",
		CategoryID:    shoes.ID,
		SubCategoryID: &totes.ID,
	})
	if !errors.Is(err, ErrSubCategoryMismatch) {
		t.Errorf("Expected ErrSubCategoryMismatch, got %v", err)
	}

	// Nothing was persisted
	if _, err := f.productRepo.FindByCode(ctx, "RUN-001"); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("Product should not exist after failed create, got %v", err)
	}
}

func TestCreateProduct_VariationValidation(t *testing.T) {
	f := newProductFixture(t)
	category := f.mustCategory(t, "Shoes")

	tests := []struct {
		name      string
		variation VariationInput
	}{
		{"missing price", VariationInput{Size: "42"}},
		{"negative price", VariationInput{Size: "42", Price: floatPtr(-1)}},
		{"discount above 100", VariationInput{Price: floatPtr(10), Discount: intPtr(101)}},
		{"negative discount", VariationInput{Price: floatPtr(10), Discount: intPtr(-5)}},
		{"negative stock", VariationInput{Price: floatPtr(10), Stock: intPtr(-1)}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.products.Create(context.Background(), CreateProductInput{
				Name:        "Runner",
				ProductCode: fmt.Sprintf("RUN-%03d", i),
				CategoryID:  category.ID,
				Variations:  []VariationInput{tt.variation},
			})
			if !errors.Is(err, ErrInvalidVariation) {
				t.Errorf("Expected ErrInvalidVariation, got %v", err)
			}
		})
	}
}

func TestCreateProduct_AssignsVariationIDs(t *testing.T) {
	f := newProductFixture(t)
	category := f.mustCategory(t, "Shoes")

	product, err := f.products.Create(context.Background(), CreateProductInput{
		Name:        "Runner",
		ProductCode: "RUN-001",
		CategoryID:  category.ID,
		Variations: []VariationInput{
			{Size: "42", Price: floatPtr(59.90), Stock: intPtr(3)},
			{Size: "43", Price: floatPtr(59.90)},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(product.Variations) != 2 {
		t.Fatalf("Expected 2 variations, got %d", len(product.Variations))
	}
	if product.Variations[0].ID == uuid.Nil || product.Variations[1].ID == uuid.Nil {
		t.Error("Variations should get generated identifiers")
	}
	if product.Variations[0].ID == product.Variations[1].ID {
		t.Error("Variation identifiers should be distinct")
	}
	if product.Variations[1].Stock != 0 {
		t.Errorf("Absent stock should default to 0, got %d", product.Variations[1].Stock)
	}
}

func TestUpdateProduct_FillIfProvided(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	category := f.mustCategory(t, "Shoes")

	product, err := f.products.Create(ctx, CreateProductInput{
		Name:        "Runner",
		ProductCode: "RUN-001",
		Description: "Lightweight",
		CategoryID:  category.ID,
		ImagePaths:  []string{"/uploads/images-1.png"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := f.products.Update(ctx, product.ID, UpdateProductInput{
		Name:         "Road Runner",
		AppendImages: []string{"/uploads/images-2.png"},
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.Name != "Road Runner" {
		t.Errorf("Name not updated: %q", updated.Name)
	}
	if updated.ProductCode != "RUN-001" {
		t.Errorf("Code changed unexpectedly: %q", updated.ProductCode)
	}
	if updated.Description != "Lightweight" {
		t.Errorf("Description changed unexpectedly: %q", updated.Description)
	}
	if len(updated.Images) != 2 || updated.Images[0] != "/uploads/images-1.png" {
		t.Errorf("Images should append, got %v", updated.Images)
	}
}

func TestUpdateProduct_CodeChangeChecked(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	category := f.mustCategory(t, "Shoes")

	if _, err := f.products.Create(ctx, CreateProductInput{
		Name: "One", ProductCode: "RUN-001", CategoryID: category.ID,
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := f.products.Create(ctx, CreateProductInput{
		Name: "Two", ProductCode: "RUN-002", CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = f.products.Update(ctx, second.ID, UpdateProductInput{ProductCode: "RUN-001"})
	if !errors.Is(err, repository.ErrProductCodeTaken) {
		t.Errorf("Expected ErrProductCodeTaken, got %v", err)
	}

	// Keeping its own code is not a collision
	if _, err := f.products.Update(ctx, second.ID, UpdateProductInput{ProductCode: "RUN-002", Name: "Two v2"}); err != nil {
		t.Errorf("Re-submitting own code should succeed, got %v", err)
	}
}

func TestUpdateProduct_SubCategoryCheckedAgainstNewCategory(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	shoes := f.mustCategory(t, "Shoes")
	bags := f.mustCategory(t, "Bags")
	totes := f.mustSubCategory(t, "Totes", bags.ID)

	product, err := f.products.Create(ctx, CreateProductInput{
		Name: "Runner", ProductCode: "RUN-001", CategoryID: shoes.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Supplying the subcategory alone mismatches the stored category
	_, err = f.products.Update(ctx, product.ID, UpdateProductInput{SubCategoryID: &totes.ID})
	if !errors.Is(err, ErrSubCategoryMismatch) {
		t.Errorf("Expected ErrSubCategoryMismatch, got %v", err)
	}

	// Moving category and subcategory together is consistent
	updated, err := f.products.Update(ctx, product.ID, UpdateProductInput{
		CategoryID:    &bags.ID,
		SubCategoryID: &totes.ID,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.CategoryID != bags.ID || updated.SubCategoryID == nil || *updated.SubCategoryID != totes.ID {
		t.Errorf("References not updated: category=%s subCategory=%v", updated.CategoryID, updated.SubCategoryID)
	}
}

func TestUpdateProduct_VariationsReplaceWholesale(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	category := f.mustCategory(t, "Shoes")

	product, err := f.products.Create(ctx, CreateProductInput{
		Name: "Runner", ProductCode: "RUN-001", CategoryID: category.ID,
		Variations: []VariationInput{
			{Size: "42", Price: floatPtr(50)},
			{Size: "43", Price: floatPtr(50)},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	replacement := []VariationInput{{Size: "44", Price: floatPtr(55)}}
	updated, err := f.products.Update(ctx, product.ID, UpdateProductInput{Variations: &replacement})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if len(updated.Variations) != 1 || updated.Variations[0].Size != "44" {
		t.Errorf("Variations should be replaced wholesale, got %v", updated.Variations)
	}
}

func TestUpdateVariation_ExplicitZeroHonored(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	category := f.mustCategory(t, "Shoes")

	product, err := f.products.Create(ctx, CreateProductInput{
		Name: "Runner", ProductCode: "RUN-001", CategoryID: category.ID,
		Variations: []VariationInput{
			{Size: "42", Color: "red", Price: floatPtr(50), Discount: intPtr(10), Stock: intPtr(7)},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	variationID := product.Variations[0].ID

	// Stock drops to zero explicitly; everything else untouched
	updated, err := f.products.UpdateVariation(ctx, product.ID, variationID, UpdateVariationInput{
		Stock: intPtr(0),
	})
	if err != nil {
		t.Fatalf("UpdateVariation failed: %v", err)
	}

	v := updated.VariationByID(variationID)
	if v == nil {
		t.Fatal("Variation lost after update")
	}
	if v.Stock != 0 {
		t.Errorf("Explicit zero stock not honored, got %d", v.Stock)
	}
	if v.Price != 50 || v.Discount != 10 || v.Size != "42" || v.Color != "red" {
		t.Errorf("Unsupplied fields changed: %+v", v)
	}
}

func TestAddAndDeleteVariation(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	category := f.mustCategory(t, "Shoes")

	product, err := f.products.Create(ctx, CreateProductInput{
		Name: "Runner", ProductCode: "RUN-001", CategoryID: category.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	withVariation, err := f.products.AddVariation(ctx, product.ID, VariationInput{
		Size: "42", Price: floatPtr(60),
	})
	if err != nil {
		t.Fatalf("AddVariation failed: %v", err)
	}
	if len(withVariation.Variations) != 1 {
		t.Fatalf("Expected 1 variation, got %d", len(withVariation.Variations))
	}
	variationID := withVariation.Variations[0].ID

	// Deleting an unknown variation is a not-found
	if _, err := f.products.DeleteVariation(ctx, product.ID, uuid.New()); !errors.Is(err, ErrVariationNotFound) {
		t.Errorf("Expected ErrVariationNotFound, got %v", err)
	}

	afterDelete, err := f.products.DeleteVariation(ctx, product.ID, variationID)
	if err != nil {
		t.Fatalf("DeleteVariation failed: %v", err)
	}
	if len(afterDelete.Variations) != 0 {
		t.Errorf("Expected no variations, got %d", len(afterDelete.Variations))
	}
}

func TestDeleteProduct_RemovesEmbeddedVariations(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	category := f.mustCategory(t, "Shoes")

	product, err := f.products.Create(ctx, CreateProductInput{
		Name: "Runner", ProductCode: "RUN-001", CategoryID: category.ID,
		Variations: []VariationInput{{Size: "42", Price: floatPtr(50)}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := f.products.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := f.products.GetByID(ctx, product.ID); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("Product should be gone, got %v", err)
	}
}

func TestListProducts_Pagination(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	category := f.mustCategory(t, "Shoes")

	for i := 0; i < 25; i++ {
		if _, err := f.products.Create(ctx, CreateProductInput{
			Name:        fmt.Sprintf("Product %02d", i),
			ProductCode: fmt.Sprintf("P-%03d", i),
			CategoryID:  category.ID,
		}); err != nil {
			t.Fatalf("Create %d failed: %v", i, err)
		}
	}

	page, err := f.products.List(ctx, ListProductsInput{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Count != 25 {
		t.Errorf("Expected count 25, got %d", page.Count)
	}
	if page.Pages != 3 {
		t.Errorf("Expected 3 pages, got %d", page.Pages)
	}
	if len(page.Items) != 5 {
		t.Errorf("Expected 5 items on last page, got %d", len(page.Items))
	}

	// Out-of-range page: empty items, totals unchanged
	beyond, err := f.products.List(ctx, ListProductsInput{Page: 9, PageSize: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(beyond.Items) != 0 || beyond.Count != 25 || beyond.Pages != 3 {
		t.Errorf("Out-of-range page wrong: items=%d count=%d pages=%d",
			len(beyond.Items), beyond.Count, beyond.Pages)
	}

	// Page values below 1 clamp to the first page
	clamped, err := f.products.List(ctx, ListProductsInput{Page: 0, PageSize: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if clamped.Page != 1 || len(clamped.Items) != 10 {
		t.Errorf("Page 0 should clamp to 1, got page=%d items=%d", clamped.Page, len(clamped.Items))
	}
}

func TestListProducts_Filters(t *testing.T) {
	f := newProductFixture(t)
	ctx := context.Background()
	shoes := f.mustCategory(t, "Shoes")
	bags := f.mustCategory(t, "Bags")
	sneakers := f.mustSubCategory(t, "Sneakers", shoes.ID)

	seed := []struct {
		name, code  string
		categoryID  uuid.UUID
		subCategory *uuid.UUID
	}{
		{"Road Runner", "RUN-001", shoes.ID, &sneakers.ID},
		{"Trail Runner", "RUN-002", shoes.ID, nil},
		{"City Tote", "TOT-001", bags.ID, nil},
	}
	for _, s := range seed {
		if _, err := f.products.Create(ctx, CreateProductInput{
			Name: s.name, ProductCode: s.code, CategoryID: s.categoryID, SubCategoryID: s.subCategory,
		}); err != nil {
			t.Fatalf("Create %s failed: %v", s.code, err)
		}
	}

	byCategory, err := f.products.List(ctx, ListProductsInput{CategoryID: &shoes.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if byCategory.Count != 2 {
		t.Errorf("Category filter: expected 2, got %d", byCategory.Count)
	}

	bySubCategory, err := f.products.List(ctx, ListProductsInput{SubCategoryID: &sneakers.ID})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if bySubCategory.Count != 1 {
		t.Errorf("Sub-category filter: expected 1, got %d", bySubCategory.Count)
	}

	// Keyword is a case-insensitive substring match on the name
	byKeyword, err := f.products.List(ctx, ListProductsInput{Keyword: "runner"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if byKeyword.Count != 2 {
		t.Errorf("Keyword filter: expected 2, got %d", byKeyword.Count)
	}

	combined, err := f.products.List(ctx, ListProductsInput{CategoryID: &shoes.ID, Keyword: "trail"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if combined.Count != 1 {
		t.Errorf("Combined filters: expected 1, got %d", combined.Count)
	}
}
