package assets

import "testing"

func TestNameFromResourceID(t *testing.T) {
	resID := "/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/myResourceGroup/providers/Microsoft.Search/searchServices/mySearch"
	expectedName := "mySearch"

	name, err := NameFromResourceID(resID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if name != expectedName {
		t.Fatalf("got %s, want %s", name, expectedName)
	}
}

func TestResourceTypeFromResourceID(t *testing.T) {
	resID := "/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/myResourceGroup/providers/Microsoft.Search/searchServices/mySearch"
	expectedType := "Microsoft.Search/searchServices"
	resourceType, err := ResourceTypeFromResourceID(resID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resourceType != expectedType {
		t.Fatalf("got %s, want %s", resourceType, expectedType)
	}
}

func TestSubscriptionFromResourceID(t *testing.T) {
	resID := "/subscriptions/11111111-1111-1111-1111-111111111111/resourceGroups/rg/providers/Microsoft.Storage/storageAccounts/sa"
	sub, err := SubscriptionFromResourceID(resID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("got %s", sub)
	}
}

func TestValidateResourceType(t *testing.T) {
	resID := "/subscriptions/00000000-0000-0000-0000-000000000000/resourceGroups/rg/providers/Microsoft.DocumentDB/databaseAccounts/cosmos"

	if err := ValidateResourceType(resID, "Microsoft.DocumentDB/databaseAccounts"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateResourceType(resID, "microsoft.documentdb/databaseaccounts"); err != nil {
		t.Fatalf("case-insensitive match failed: %v", err)
	}

	err := ValidateResourceType(resID, "Microsoft.Search/searchServices")
	if err == nil {
		t.Fatal("expected error for mismatched type")
	}
}
