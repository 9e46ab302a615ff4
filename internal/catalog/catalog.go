package catalog

import (
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Descriptor pairs a tool declaration with its authorization tag. Privileged
// tools require an authorized admin principal before they may execute.
type Descriptor struct {
	Tool       openai.Tool
	Privileged bool
}

// Catalog is the fixed, process-wide set of tools exposed to the model.
type Catalog struct {
	byName  map[string]Descriptor
	ordered []openai.Tool
}

// Lookup resolves a tool by name.
func (c *Catalog) Lookup(name string) (Descriptor, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// Tools returns the declarations in catalog order, for the stage-1 request.
func (c *Catalog) Tools() []openai.Tool {
	out := make([]openai.Tool, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Names lists the tool names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.ordered))
	for _, t := range c.ordered {
		names = append(names, t.Function.Name)
	}
	return names
}

func noParams() jsonschema.Definition {
	return jsonschema.Definition{
		Type:                 jsonschema.Object,
		Properties:           map[string]jsonschema.Definition{},
		Required:             []string{},
		AdditionalProperties: false,
	}
}

func principalParams(field, desc string) jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			field: {
				Type:        jsonschema.String,
				Description: desc,
			},
		},
		Required:             []string{field},
		AdditionalProperties: false,
	}
}

func function(name, description string, params jsonschema.Definition) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Strict:      true,
			Parameters:  params,
		},
	}
}

// Default builds the vault tool catalog. The set, descriptions and parameter
// schemas are fixed at startup and shared by the orchestrator and the
// dispatcher.
func Default() *Catalog {
	entries := []Descriptor{
		{Tool: function("get_user_balance",
			"Returns the USDX token balance of a user's account.",
			principalParams("user_principal", "The principal ID of the user to check balance for."))},
		{Tool: function("get_vault_info",
			"Returns general information about the vault including total locked tokens, dividend count, and product information.",
			noParams())},
		{Tool: function("get_active_products",
			"Returns all active investment products available for users to invest in.",
			noParams())},
		{Tool: function("get_investment_instruments",
			"Returns all available investment instruments with their details including APY, risk level, and investment limits.",
			noParams())},
		{Tool: function("get_user_vault_entries",
			"Returns all vault entries (locked investments) for a specific user.",
			principalParams("user_principal", "The principal ID of the user to get vault entries for."))},
		{Tool: function("get_user_investment_report",
			"Returns a comprehensive investment report for a user including total investments, ROI, and dividends.",
			principalParams("user_principal", "The principal ID of the user to get investment report for."))},
		{Tool: function("get_unclaimed_dividends",
			"Returns all unclaimed dividends for a specific user.",
			principalParams("user_principal", "The principal ID of the user to check unclaimed dividends for."))},
		{Tool: function("check_admin_status",
			"Checks if a user has admin privileges. Required before using admin functions.",
			principalParams("user_principal", "The principal ID to check for admin privileges."))},
		{Tool: function("get_admin_investment_report",
			"Returns comprehensive platform investment report with user statistics and performance metrics. Admin only.",
			principalParams("admin_principal", "The principal ID of the admin requesting the report.")),
			Privileged: true},
	}

	c := &Catalog{byName: make(map[string]Descriptor, len(entries))}
	for _, e := range entries {
		c.byName[e.Tool.Function.Name] = e
		c.ordered = append(c.ordered, e.Tool)
	}
	return c
}
