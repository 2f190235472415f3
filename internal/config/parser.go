package config

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/clusterfetch/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

const (
	// MaxConfigSize bounds the size of a Lua config file.
	MaxConfigSize = 1 << 20
	// DefaultParseTimeout applies when the context carries no deadline.
	DefaultParseTimeout = 5 * time.Second
)

// Parser evaluates Lua cluster configs with platform detection.
type Parser struct {
	detector platform.Detector
	logger   Logger
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector leaves the platform table undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector, logger: noopLogger{}}
}

// WithLogger returns the parser with logger attached.
func (p *Parser) WithLogger(logger Logger) *Parser {
	p.logger = orNoop(logger)
	return p
}

// ParseFile reads and parses a Lua config file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s is %d bytes, maximum is %d", path, info.Size(), MaxConfigSize),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	p.logger.Debug("parsing lua config", "path", path, "bytes", len(data))
	return p.ParseString(ctx, string(data))
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("evaluate config: %w", ctxErr)
		}
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "cluster" table.
func extractConfig(L *lua.LState) (*Config, error) {
	global := L.GetGlobal(luaGlobalCluster)
	table, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "missing or invalid 'cluster' table",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	config := &Config{}
	var err error

	paths := []struct {
		field string
		dst   *string
	}{
		{luaFieldHome, &config.Home},
		{luaFieldStoreBinDir, &config.StoreBinDir},
		{luaFieldOgmiosHome, &config.OgmiosHome},
		{luaFieldKupoHome, &config.KupoHome},
	}
	for _, f := range paths {
		if *f.dst, err = scalarField(table, f.field); err != nil {
			return nil, err
		}
	}

	sources := []struct {
		field string
		dst   *Source
	}{
		{luaFieldNode, &config.Node},
		{luaFieldYaciStore, &config.YaciStore},
		{luaFieldOgmios, &config.Ogmios},
		{luaFieldKupo, &config.Kupo},
	}
	for _, s := range sources {
		if *s.dst, err = extractSource(table, s.field); err != nil {
			return nil, err
		}
	}

	if err := config.validateURLs(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return config, nil
}

// extractSource reads a {version=, url=} sub-table. A missing or nil entry
// (for example from a platform conditional) yields an empty Source.
func extractSource(parent *lua.LTable, field string) (Source, error) {
	value := parent.RawGetString(field)
	if value == lua.LNil {
		return Source{}, nil
	}

	table, ok := value.(*lua.LTable)
	if !ok {
		return Source{}, &ParseError{
			Message: fmt.Sprintf("invalid '%s' entry", field),
			Detail:  fmt.Sprintf("expected table, got %s", value.Type()),
		}
	}

	version, err := scalarField(table, luaFieldVersion)
	if err != nil {
		return Source{}, err
	}
	url, err := scalarField(table, luaFieldURL)
	if err != nil {
		return Source{}, err
	}

	return Source{Version: version, URL: url}, nil
}

// scalarField reads a string field. Whole numbers are accepted unquoted;
// fractional ones are rejected because 2.10 and 2.1 are the same number.
func scalarField(table *lua.LTable, field string) (string, error) {
	switch v := table.RawGetString(field).(type) {
	case *lua.LNilType:
		return "", nil
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		f := float64(v)
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return "", unquotedNumberError(field, v.String())
		}
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	default:
		return "", &ParseError{
			Message: fmt.Sprintf("invalid '%s' value", field),
			Detail:  fmt.Sprintf("expected string, got %s", v.Type()),
		}
	}
}

func unquotedNumberError(field, value string) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf("invalid '%s' value", field),
		Detail:  fmt.Sprintf("unquoted number %s drops trailing zeros (2.10 reads as 2.1); write %s as a quoted string", value, field),
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
