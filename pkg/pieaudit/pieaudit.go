// Package pieaudit provides the public Go library API for pie-audit.
//
// pie-audit compares the extensions a PHP runtime has loaded with the
// extension packages PIE installed, and checks each matching binary against
// the SHA256 checksum PIE recorded when it installed the package. It never
// modifies anything.
//
// # Basic Usage
//
//	client, err := pieaudit.New(pieaudit.Options{
//	    PHPBinary: "/usr/bin/php8.3",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := client.Audit(ctx)
//	for _, m := range result.Matched {
//	    fmt.Println(m.Runtime.ModuleName, m.Status)
//	}
//
// Without InstalledJSON the client uses the installed.json PIE keeps in its
// working directory for the queried PHP binary (~/.pie/php8.3_<md5>/...).
package pieaudit

import (
	"context"
	"fmt"
	"io"

	"github.com/bianoble/pie-audit/internal/config"
	"github.com/bianoble/pie-audit/internal/engine"
	"github.com/bianoble/pie-audit/internal/installed"
	"github.com/bianoble/pie-audit/internal/phpruntime"
	"github.com/bianoble/pie-audit/internal/platform"
	"github.com/charmbracelet/log"
)

// Auditor reconciles loaded extensions with PIE-installed packages.
type Auditor interface {
	Audit(ctx context.Context) (*Result, error)
}

// Verifier reports whether every checkable binary still matches its record.
type Verifier interface {
	Verify(ctx context.Context) (*VerifyResult, error)
}

// Options configures a pie-audit client.
type Options struct {
	// PHPBinary is the PHP CLI to query. Default: "php".
	PHPBinary string

	// InstalledJSON is the Composer installed.json maintained by PIE.
	// Default: discovered under PieWorkingDirectory for the audited PHP.
	InstalledJSON string

	// PieWorkingDirectory is PIE's base directory.
	// Default: $PIE_WORKING_DIRECTORY, else ~/.pie.
	PieWorkingDirectory string

	// Snapshot, when set, is read instead of querying PHPBinary.
	Snapshot string

	// ExtensionDir overrides the extension_dir reported by PHP.
	ExtensionDir string

	// ExtensionSuffix overrides the host default (".so", or ".dll" on Windows).
	ExtensionSuffix string

	// Logger receives diagnostics. Nil discards them.
	Logger *log.Logger
}

// Client is the main entry point for the pie-audit library.
// It implements Auditor and Verifier.
type Client struct {
	opts Options
}

// New creates a new pie-audit Client.
func New(opts Options) (*Client, error) {
	if opts.PHPBinary == "" {
		opts.PHPBinary = "php"
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	opts.ExtensionSuffix = platform.ResolveSuffix(opts.ExtensionSuffix)

	return &Client{opts: opts}, nil
}

// Runtime returns the PHP runtime the client audits, from the snapshot when
// one is configured.
func (c *Client) Runtime(ctx context.Context) (*Runtime, error) {
	if c.opts.Snapshot != "" {
		return phpruntime.LoadSnapshot(c.opts.Snapshot)
	}
	return phpruntime.Query(ctx, c.opts.PHPBinary)
}

// InstalledJSON returns the installed.json audited against rt: the
// configured path, else the one PIE maintains for rt's PHP binary.
func (c *Client) InstalledJSON(rt *Runtime) (string, error) {
	if c.opts.InstalledJSON != "" {
		return c.opts.InstalledJSON, nil
	}

	base := c.opts.PieWorkingDirectory
	if base == "" {
		base = config.PieBaseDirectory()
	}
	path, err := config.DiscoverInstalledJSON(base, rt.PHPVersion, rt.PHPBinaryPath)
	if err != nil {
		return "", fmt.Errorf("locating installed.json: %w", err)
	}
	c.opts.Logger.Debug("discovered installed.json", "path", path)
	return path, nil
}

// Reconcile reconciles rt with the PIE packages recorded in installedJSON.
// Errors come only from loading the packages; per-module problems are
// reported as statuses.
func (c *Client) Reconcile(rt *Runtime, installedJSON string) (*Result, error) {
	pkgs, err := installed.Load(installedJSON)
	if err != nil {
		return nil, err
	}
	for _, name := range pkgs.Replaced() {
		c.opts.Logger.Warn("module provided by more than one PIE package, using the last one", "module", name, "path", installedJSON)
	}

	extDir := c.opts.ExtensionDir
	if extDir == "" {
		extDir = rt.ExtensionDir
	}
	if extDir == "" {
		return nil, fmt.Errorf("extension directory unknown: PHP reported none and no override was given")
	}

	r := &engine.Reconciler{Logger: c.opts.Logger}
	return r.Reconcile(rt.Modules, pkgs, extDir, c.opts.ExtensionSuffix), nil
}

// Audit loads the runtime, locates installed.json and reconciles them.
func (c *Client) Audit(ctx context.Context) (*Result, error) {
	rt, err := c.Runtime(ctx)
	if err != nil {
		return nil, err
	}

	path, err := c.InstalledJSON(rt)
	if err != nil {
		return nil, err
	}
	return c.Reconcile(rt, path)
}

// Verify runs an audit and keeps only the checksum verdicts.
func (c *Client) Verify(ctx context.Context) (*VerifyResult, error) {
	result, err := c.Audit(ctx)
	if err != nil {
		return nil, err
	}
	return engine.Verify(result), nil
}

// ExtensionSuffix returns the suffix the client appends to module names.
func (c *Client) ExtensionSuffix() string {
	return c.opts.ExtensionSuffix
}
