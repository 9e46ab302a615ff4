package catalog

import "testing"

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	if got := len(c.Tools()); got != 9 {
		t.Fatalf("expected 9 tools, got %d", got)
	}

	report, ok := c.Lookup("get_admin_investment_report")
	if !ok {
		t.Fatal("admin report tool missing")
	}
	if !report.Privileged {
		t.Fatal("admin report tool must be privileged")
	}

	for _, name := range c.Names() {
		if name == "get_admin_investment_report" {
			continue
		}
		d, ok := c.Lookup(name)
		if !ok {
			t.Fatalf("tool %s not resolvable", name)
		}
		if d.Privileged {
			t.Fatalf("tool %s unexpectedly privileged", name)
		}
	}

	if _, ok := c.Lookup("transfer_funds"); ok {
		t.Fatal("unknown tool should not resolve")
	}
}
