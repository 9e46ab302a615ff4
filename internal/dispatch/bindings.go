package dispatch

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Typed argument variants for the fixed tool set. The model passes arguments
// under the external names; each binding validates them and renames them to
// the field the backend expects.

type userArgs struct {
	UserPrincipal string `json:"user_principal"`
}

type adminArgs struct {
	AdminPrincipal string `json:"admin_principal"`
}

func decodeUserArgs(raw string) (userArgs, error) {
	var args userArgs
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return args, fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(args.UserPrincipal) == "" {
		return args, errors.New("user_principal is required")
	}
	return args, nil
}

func decodeAdminArgs(raw string) (adminArgs, error) {
	var args adminArgs
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return args, fmt.Errorf("invalid arguments: %w", err)
	}
	return args, nil
}

// binding maps one tool to its backend endpoint. The external-to-backend
// argument renaming (user_principal to owner, user or principal depending on
// the endpoint) is part of the backend contract and must match it exactly.
type binding struct {
	path string
	body func(rawArgs string) (any, error)
}

func userBody(field string) func(string) (any, error) {
	return func(raw string) (any, error) {
		args, err := decodeUserArgs(raw)
		if err != nil {
			return nil, err
		}
		return map[string]string{field: args.UserPrincipal}, nil
	}
}

func emptyBody(raw string) (any, error) {
	return map[string]string{}, nil
}

var bindings = map[string]binding{
	"get_user_balance":           {path: "/balance", body: userBody("owner")},
	"get_vault_info":             {path: "/vault-info", body: emptyBody},
	"get_active_products":        {path: "/products", body: emptyBody},
	"get_investment_instruments": {path: "/get-investment-instruments", body: emptyBody},
	"get_user_vault_entries":     {path: "/user-vault-entries", body: userBody("user")},
	"get_user_investment_report": {path: "/user-investment-report", body: userBody("user")},
	"get_unclaimed_dividends":    {path: "/unclaimed-dividends", body: userBody("user")},
	"check_admin_status":         {path: "/admin-check", body: userBody("principal")},
	"get_admin_investment_report": {path: "/admin-investment-report", body: func(raw string) (any, error) {
		args, err := decodeAdminArgs(raw)
		if err != nil {
			return nil, err
		}
		return map[string]string{"admin_principal": args.AdminPrincipal}, nil
	}},
}
