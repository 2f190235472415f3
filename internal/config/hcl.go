package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// HCL layout:
//
//	home = "~/devnet"
//	component "node" { version = "10.1.2" }
//	component "kupo" { url = "https://mirror.example/kupo.tar.gz" }
var (
	hclFileSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: luaFieldHome},
			{Name: luaFieldStoreBinDir},
			{Name: luaFieldOgmiosHome},
			{Name: luaFieldKupoHome},
		},
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "component", LabelNames: []string{"name"}},
		},
	}

	hclComponentSchema = &hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: luaFieldVersion},
			{Name: luaFieldURL},
		},
	}
)

// parseHCLFile reads a config written in HCL native syntax.
func parseHCLFile(path string) (*Config, error) {
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, &ParseError{Message: "HCL syntax error", Detail: diags.Error()}
	}

	content, diags := file.Body.Content(hclFileSchema)
	if diags.HasErrors() {
		return nil, &ParseError{Message: "invalid HCL config", Detail: diags.Error()}
	}

	config := &Config{}
	dirs := map[string]*string{
		luaFieldHome:        &config.Home,
		luaFieldStoreBinDir: &config.StoreBinDir,
		luaFieldOgmiosHome:  &config.OgmiosHome,
		luaFieldKupoHome:    &config.KupoHome,
	}
	for name, dst := range dirs {
		attr, ok := content.Attributes[name]
		if !ok {
			continue
		}
		value, err := hclString(attr)
		if err != nil {
			return nil, err
		}
		*dst = value
	}

	for _, block := range content.Blocks {
		name := block.Labels[0]
		dst := config.sourceNamed(name)
		if dst == nil {
			return nil, &ParseError{
				Message: "invalid HCL config",
				Detail:  fmt.Sprintf("%s: unknown component %q", block.DefRange, name),
			}
		}

		body, diags := block.Body.Content(hclComponentSchema)
		if diags.HasErrors() {
			return nil, &ParseError{
				Message: "invalid HCL config",
				Detail:  fmt.Sprintf("component %q: %s", name, diags.Error()),
			}
		}

		var err error
		if attr, ok := body.Attributes[luaFieldVersion]; ok {
			if dst.Version, err = hclString(attr); err != nil {
				return nil, err
			}
		}
		if attr, ok := body.Attributes[luaFieldURL]; ok {
			if dst.URL, err = hclString(attr); err != nil {
				return nil, err
			}
		}
	}

	if err := config.validateURLs(); err != nil {
		return nil, &ParseError{Message: "config validation failed", Detail: err.Error()}
	}

	return config, nil
}

// hclString evaluates a literal attribute. Whole numbers are accepted
// unquoted, fractional ones are not.
func hclString(attr *hcl.Attribute) (string, error) {
	value, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", &ParseError{
			Message: fmt.Sprintf("invalid '%s' value", attr.Name),
			Detail:  diags.Error(),
		}
	}

	switch {
	case value.IsNull():
		return "", nil
	case value.Type() == cty.String:
		return value.AsString(), nil
	case value.Type() == cty.Number:
		number := value.AsBigFloat()
		if !number.IsInt() {
			return "", unquotedNumberError(attr.Name, number.Text('f', -1))
		}
		return number.Text('f', 0), nil
	default:
		return "", &ParseError{
			Message: fmt.Sprintf("invalid '%s' value", attr.Name),
			Detail:  fmt.Sprintf("%s: expected string, got %s", attr.Range, value.Type().FriendlyName()),
		}
	}
}
