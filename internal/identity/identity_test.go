package identity

import (
	"context"
	"testing"
)

func TestDigestStable(t *testing.T) {
	a := Digest("token-1")
	b := Digest("token-1")
	c := Digest("token-2")

	if a != b {
		t.Errorf("Digest not deterministic: %s vs %s", a, b)
	}
	if a == c {
		t.Error("distinct tokens produced identical digests")
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
}

func TestStaticResolve(t *testing.T) {
	vendorID := "v-1"
	p := Static{
		"good-token": {UserID: "u-1", Role: RoleVendor, VendorID: &vendorID},
	}
	ctx := context.Background()

	id, err := p.Resolve(ctx, "good-token")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id.UserID != "u-1" || id.Role != RoleVendor {
		t.Errorf("identity = %+v", id)
	}
	if id.VendorID == nil || *id.VendorID != "v-1" {
		t.Errorf("VendorID = %v, want v-1", id.VendorID)
	}

	if _, err := p.Resolve(ctx, "bad-token"); err != ErrUnauthenticated {
		t.Errorf("bad token: err = %v, want ErrUnauthenticated", err)
	}
}

func TestIsAdmin(t *testing.T) {
	if (Identity{Role: RoleSupplier}).IsAdmin() {
		t.Error("supplier should not be admin")
	}
	if !(Identity{Role: RoleAdmin}).IsAdmin() {
		t.Error("admin should be admin")
	}
}
