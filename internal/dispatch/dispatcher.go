package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vaultagent/internal/catalog"
	"vaultagent/internal/observability"
)

// Backend executes one backend call for a tool.
type Backend interface {
	Call(ctx context.Context, path string, body any) (json.RawMessage, error)
}

// Authorizer decides whether a principal may run privileged tools.
type Authorizer interface {
	IsAuthorized(ctx context.Context, principal string) bool
}

// Dispatcher resolves tool invocations against the catalog, gates privileged
// tools behind the authorizer and normalizes every outcome into a Result.
// Dispatch never returns an error to its caller.
type Dispatcher struct {
	catalog *catalog.Catalog
	backend Backend
	authz   Authorizer
	log     zerolog.Logger
}

// NewDispatcher wires a dispatcher.
func NewDispatcher(cat *catalog.Catalog, backend Backend, authz Authorizer, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		catalog: cat,
		backend: backend,
		authz:   authz,
		log:     log,
	}
}

// Dispatch executes one invocation and always produces a result carrying the
// originating invocation id.
func (d *Dispatcher) Dispatch(ctx context.Context, inv Invocation) Result {
	started := time.Now()
	res := d.dispatch(ctx, inv)
	observability.RecordToolDispatch(inv.Tool, string(res.Status), time.Since(started))

	d.log.Info().
		Str("tool", inv.Tool).
		Str("invocation_id", inv.ID).
		Str("status", string(res.Status)).
		Msg("tool dispatched")
	return res
}

func (d *Dispatcher) dispatch(ctx context.Context, inv Invocation) Result {
	desc, ok := d.catalog.Lookup(inv.Tool)
	if !ok {
		return d.failed(inv, fmt.Sprintf("unsupported tool: %s", inv.Tool))
	}
	bind, ok := bindings[inv.Tool]
	if !ok {
		return d.failed(inv, fmt.Sprintf("unsupported tool: %s", inv.Tool))
	}

	if desc.Privileged {
		return d.dispatchPrivileged(ctx, inv, bind)
	}

	body, err := bind.body(inv.Arguments)
	if err != nil {
		return d.failed(inv, fmt.Sprintf("tool execution failed: %v", err))
	}
	return d.execute(ctx, inv, bind.path, body)
}

func (d *Dispatcher) dispatchPrivileged(ctx context.Context, inv Invocation, bind binding) Result {
	args, err := decodeAdminArgs(inv.Arguments)
	if err != nil {
		return d.failed(inv, fmt.Sprintf("tool execution failed: %v", err))
	}
	principal := strings.TrimSpace(args.AdminPrincipal)
	if principal == "" {
		return Result{
			ID:     inv.ID,
			Tool:   inv.Tool,
			Status: StatusAuthorizationRequired,
			Payload: errorPayload(map[string]string{
				"error":  "Admin functions require admin_principal parameter",
				"status": "authentication_required",
			}),
		}
	}

	if !d.authz.IsAuthorized(ctx, principal) {
		return Result{
			ID:     inv.ID,
			Tool:   inv.Tool,
			Status: StatusAuthorizationDenied,
			Payload: errorPayload(map[string]string{
				"error":         fmt.Sprintf("Access denied: %s does not have admin privileges", principal),
				"status":        "unauthorized",
				"required_role": "admin",
			}),
		}
	}

	return d.execute(ctx, inv, bind.path, map[string]string{"admin_principal": principal})
}

func (d *Dispatcher) execute(ctx context.Context, inv Invocation, path string, body any) Result {
	payload, err := d.backend.Call(ctx, path, body)
	if err != nil {
		return d.failed(inv, fmt.Sprintf("tool execution failed: %v", err))
	}
	return Result{ID: inv.ID, Tool: inv.Tool, Status: StatusOK, Payload: payload}
}

func (d *Dispatcher) failed(inv Invocation, msg string) Result {
	return Result{
		ID:     inv.ID,
		Tool:   inv.Tool,
		Status: StatusExecutionFailed,
		Payload: errorPayload(map[string]string{
			"error":  msg,
			"status": "failed",
		}),
	}
}
