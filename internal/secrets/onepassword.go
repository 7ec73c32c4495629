// Package secrets wraps the 1Password CLI (op): session management,
// item retrieval, and field extraction.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/systmms/macstrap/internal/config"
	mserrors "github.com/systmms/macstrap/internal/errors"
	"github.com/systmms/macstrap/internal/execenv"
	"github.com/systmms/macstrap/internal/logging"
	"github.com/systmms/macstrap/internal/secure"
)

// InteractiveRunner runs a command attached to the user's terminal.
// Satisfied by execenv.ExecRunner in production.
type InteractiveRunner interface {
	RunInteractive(ctx context.Context, name string, args ...string) error
}

// Client wraps the 1Password CLI.
type Client struct {
	cfg            config.SecretsConfig
	logger         *logging.Logger
	runner         execenv.Runner
	interactive    InteractiveRunner
	nonInteractive bool
}

// NewClient creates a 1Password client. The interactive runner may be
// nil when sign-in prompts are not wanted (tests, non-interactive runs).
func NewClient(cfg config.SecretsConfig, logger *logging.Logger, runner execenv.Runner, interactive InteractiveRunner, nonInteractive bool) *Client {
	return &Client{
		cfg:            cfg,
		logger:         logger,
		runner:         runner,
		interactive:    interactive,
		nonInteractive: nonInteractive,
	}
}

// Item represents the structure returned by 'op item get --format json'.
type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Vault    struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"vault"`
	Fields []Field `json:"fields"`
}

// Field is a single item field.
type Field struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Purpose string `json:"purpose"`
	Label   string `json:"label"`
	Value   string `json:"value"`
}

// EnsureSignedIn verifies an active op session, starting an interactive
// sign-in when the session is missing and a terminal is available.
func (c *Client) EnsureSignedIn(ctx context.Context) error {
	if _, err := exec.LookPath("op"); err != nil {
		return mserrors.WrapCommandNotFound("op", err)
	}

	if c.SessionActive(ctx) {
		c.logger.Debug("1Password session is active")
		return nil
	}

	if c.nonInteractive || c.interactive == nil {
		return mserrors.SignInError{
			Account: c.cfg.Account,
			Err:     fmt.Errorf("no active session and interactive sign-in is disabled"),
		}
	}

	c.logger.Info("No active 1Password session, starting sign-in")
	args := []string{"signin"}
	if c.cfg.Account != "" {
		args = append(args, "--account", c.cfg.Account)
	}
	if err := c.interactive.RunInteractive(ctx, "op", args...); err != nil {
		return mserrors.SignInError{Account: c.cfg.Account, Err: err}
	}

	if !c.SessionActive(ctx) {
		return mserrors.SignInError{
			Account: c.cfg.Account,
			Err:     fmt.Errorf("sign-in completed but no session was established"),
		}
	}
	return nil
}

// SessionActive probes for an active session with 'op account get', which
// exits non-zero when no session exists.
func (c *Client) SessionActive(ctx context.Context) bool {
	args := []string{"account", "get"}
	if c.cfg.Account != "" {
		args = append(args, "--account", c.cfg.Account)
	}
	result, err := c.runner.Run(ctx, execenv.Spec{Name: "op", Args: args})
	return err == nil && result.Success
}

// FetchItem retrieves an item from the configured vault in JSON form.
func (c *Client) FetchItem(ctx context.Context, item string) (*Item, error) {
	args := []string{"item", "get", item, "--vault", c.cfg.Vault, "--format", "json"}
	if c.cfg.Account != "" {
		args = append(args, "--account", c.cfg.Account)
	}

	result, err := c.runner.Run(ctx, execenv.Spec{Name: "op", Args: args})
	if err != nil {
		return nil, mserrors.RetrievalError{Vault: c.cfg.Vault, Item: item, Err: err}
	}
	if !result.Success {
		return nil, mserrors.RetrievalError{
			Vault: c.cfg.Vault,
			Item:  item,
			Err:   fmt.Errorf("op exited with code %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr)),
		}
	}

	var parsed Item
	if err := json.Unmarshal([]byte(result.Stdout), &parsed); err != nil {
		return nil, mserrors.RetrievalError{
			Vault: c.cfg.Vault,
			Item:  item,
			Err:   fmt.Errorf("malformed item JSON: %w", err),
		}
	}
	return &parsed, nil
}

// ExtractNotesField locates the notes field. The CLI has not been
// consistent about how the field is tagged across versions, so three
// identifying attributes are accepted.
func ExtractNotesField(item *Item) (string, bool) {
	for _, field := range item.Fields {
		if field.ID == "notesPlain" || field.Purpose == "NOTES" || field.Label == "notes" {
			return field.Value, true
		}
	}
	return "", false
}

// ExtractField locates a named field by id or label.
func ExtractField(item *Item, name string) (string, bool) {
	for _, field := range item.Fields {
		if field.ID == name || field.Label == name {
			return field.Value, true
		}
	}
	return "", false
}

// FetchKeyMaterial resolves the configured item path and returns the
// key text in a protected buffer. The material is never written to disk.
func (c *Client) FetchKeyMaterial(ctx context.Context) (*secure.Buffer, error) {
	itemName, fieldName := c.cfg.SplitItemPath()

	item, err := c.FetchItem(ctx, itemName)
	if err != nil {
		return nil, err
	}

	var value string
	var ok bool
	if fieldName == "notes" {
		value, ok = ExtractNotesField(item)
	} else {
		value, ok = ExtractField(item, fieldName)
	}
	if !ok {
		return nil, mserrors.NotFoundError{Item: itemName, Field: fieldName}
	}

	c.logger.Debug("Fetched key material from %s/%s (%d bytes)", c.cfg.Vault, itemName, len(value))
	return secure.NewBufferFromString(value), nil
}
