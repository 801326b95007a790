package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// OptionType defines the type of value an option expects
type OptionType int

const (
	OptionTypeBool OptionType = iota
	OptionTypeString
	OptionTypeInt  // Counted when repeated as a short flag (-vvv)
	OptionTypeList // Repeatable string option, every occurrence is kept
)

// OptionDef defines a command-line option. Defaults live in the configuration
// layer, so an unset option simply has no value.
type OptionDef struct {
	Long        string
	Short       string
	Type        OptionType
	Description string
}

// ParsedOptions holds the parsed command-line options
type ParsedOptions struct {
	values   map[string]string
	lists    map[string][]string
	args     []string
	defs     map[string]*OptionDef
	shortMap map[string]string // short name -> long name
}

// NewParsedOptions creates a new options parser
func NewParsedOptions() *ParsedOptions {
	return &ParsedOptions{
		values:   make(map[string]string),
		lists:    make(map[string][]string),
		defs:     make(map[string]*OptionDef),
		shortMap: make(map[string]string),
	}
}

// DefineOption defines a command-line option
func (p *ParsedOptions) DefineOption(long, short string, optType OptionType, description string) {
	p.defs[long] = &OptionDef{Long: long, Short: short, Type: optType, Description: description}
	if short != "" {
		p.shortMap[short] = long
	}
}

// Parse parses command-line arguments. Options and positional arguments may be
// interleaved; everything after a bare "--" is positional.
func (p *ParsedOptions) Parse(args []string) error {
	consumed := make([]bool, len(args))

	for i := 0; i < len(args); i++ {
		if consumed[i] {
			continue
		}
		arg := args[i]

		switch {
		case arg == "--":
			consumed[i] = true
			for j := i + 1; j < len(args); j++ {
				if !consumed[j] {
					p.args = append(p.args, args[j])
					consumed[j] = true
				}
			}
			return nil

		case strings.HasPrefix(arg, "--"):
			consumed[i] = true
			if err := p.parseLongOption(arg[2:], args, i, consumed); err != nil {
				return err
			}

		case strings.HasPrefix(arg, "-") && len(arg) > 1:
			consumed[i] = true
			if err := p.parseShortOptions(arg[1:], args, i, consumed); err != nil {
				return err
			}

		default:
			consumed[i] = true
			p.args = append(p.args, arg)
		}
	}
	return nil
}

// parseLongOption handles --name, --name=value and, for lists, --name value
func (p *ParsedOptions) parseLongOption(opt string, args []string, i int, consumed []bool) error {
	name, value, hasValue := strings.Cut(opt, "=")

	def, exists := p.defs[name]
	if !exists {
		return fmt.Errorf("unknown option: --%s", name)
	}

	switch def.Type {
	case OptionTypeBool:
		if hasValue {
			return fmt.Errorf("option --%s does not take a value", name)
		}
		p.values[name] = "true"

	case OptionTypeString, OptionTypeInt:
		if value == "" {
			return fmt.Errorf("option --%s requires a value (use --%s=value)", name, name)
		}
		if def.Type == OptionTypeInt {
			if _, err := strconv.Atoi(value); err != nil {
				return fmt.Errorf("invalid integer value for --%s: %s", name, value)
			}
		}
		p.values[name] = value

	case OptionTypeList:
		if !hasValue {
			value = nextArg(args, i, consumed, nil)
		}
		if value == "" {
			return fmt.Errorf("option --%s requires a value", name)
		}
		p.lists[name] = append(p.lists[name], value)
	}
	return nil
}

// parseShortOptions handles one or more bundled short flags (-q, -vvv, -Lq)
func (p *ParsedOptions) parseShortOptions(opts string, args []string, i int, consumed []bool) error {
	counts := make(map[string]int)
	var order []string
	for _, r := range opts {
		short := string(r)
		if _, exists := p.shortMap[short]; !exists {
			return fmt.Errorf("unknown option: -%s", short)
		}
		if counts[short] == 0 {
			order = append(order, short)
		}
		counts[short]++
	}

	for _, short := range order {
		count := counts[short]
		name := p.shortMap[short]

		switch p.defs[name].Type {
		case OptionTypeBool:
			p.values[name] = "true"

		case OptionTypeInt:
			// -vvv means 3, a lone -j takes a following number, a lone -v means 1
			switch {
			case count > 1:
				p.values[name] = strconv.Itoa(count)
			default:
				value := nextArg(args, i, consumed, isInt)
				if value == "" {
					value = "1"
				}
				p.values[name] = value
			}

		case OptionTypeString:
			value := nextArg(args, i, consumed, nil)
			if value == "" {
				return fmt.Errorf("option -%s requires a value", short)
			}
			p.values[name] = value

		case OptionTypeList:
			for range count {
				value := nextArg(args, i, consumed, nil)
				if value == "" {
					return fmt.Errorf("option -%s requires a value", short)
				}
				p.lists[name] = append(p.lists[name], value)
			}
		}
	}
	return nil
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// nextArg consumes the first unconsumed non-option argument after start. When
// accept is set and rejects that argument, it is left alone and "" is returned.
func nextArg(args []string, start int, consumed []bool, accept func(string) bool) string {
	for j := start + 1; j < len(args); j++ {
		if consumed[j] || strings.HasPrefix(args[j], "-") {
			continue
		}
		if accept != nil && !accept(args[j]) {
			return ""
		}
		consumed[j] = true
		return args[j]
	}
	return ""
}

// GetString returns an option value, "" when unset
func (p *ParsedOptions) GetString(option string) string {
	return p.values[option]
}

// GetBool returns a boolean option value
func (p *ParsedOptions) GetBool(option string) bool {
	return p.values[option] == "true"
}

// GetList returns every value given for a list option, in command-line order
func (p *ParsedOptions) GetList(option string) []string {
	return p.lists[option]
}

// IsSet returns true if an option was given on the command line
func (p *ParsedOptions) IsSet(option string) bool {
	_, ok := p.values[option]
	return ok || len(p.lists[option]) > 0
}

// GetArgs returns non-option arguments
func (p *ParsedOptions) GetArgs() []string {
	return p.args
}

// ShowUsage writes the option list sorted by long name
func (p *ParsedOptions) ShowUsage(w io.Writer) {
	names := make([]string, 0, len(p.defs))
	for name := range p.defs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := p.defs[name]
		shortOpt := "    "
		if def.Short != "" {
			shortOpt = "-" + def.Short + ", "
		}

		var valueDesc string
		switch def.Type {
		case OptionTypeString:
			valueDesc = "=VALUE"
		case OptionTypeInt:
			valueDesc = "=N"
		case OptionTypeList:
			valueDesc = " VALUE"
		}

		fmt.Fprintf(w, "  %s--%s%s\n", shortOpt, def.Long, valueDesc)
		fmt.Fprintf(w, "        %s\n", def.Description)
	}
}
