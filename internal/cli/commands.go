package cli

import (
	"fmt"
	"strconv"
	"strings"

	"encrypted-signatures/internal/config"
	"encrypted-signatures/internal/game"
)

// parseCategory accepts a category name, a unique prefix of one, or its
// 1-based position.
func parseCategory(arg string) (config.Category, error) {
	if cat, ok := config.ParseCategory(arg); ok {
		return cat, nil
	}
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(config.Categories) {
		return config.Categories[n-1], nil
	}
	var found []config.Category
	for _, cat := range config.Categories {
		if arg != "" && strings.HasPrefix(cat.String(), strings.ToLower(arg)) {
			found = append(found, cat)
		}
	}
	if len(found) == 1 {
		return found[0], nil
	}
	return 0, fmt.Errorf("unknown category '%s'", arg)
}

// parseAttribute resolves the remaining words of a command to an attribute of
// cat, by name (spaces allowed, any case) or by 1-based position.
func parseAttribute(cfg *config.GameConfig, cat config.Category, words []string) (config.Attribute, error) {
	name := strings.Join(words, " ")
	attrs := cfg.Attributes(cat)
	if n, err := strconv.Atoi(name); err == nil && n >= 1 && n <= len(attrs) {
		return attrs[n-1], nil
	}
	for _, a := range attrs {
		if strings.EqualFold(string(a), name) {
			return a, nil
		}
	}
	return "", fmt.Errorf("'%s' is not a %s attribute", name, cat)
}

// parseAction builds an action from a command word and its arguments.
//
//	verify <category> <attribute>
//	scan <category>
//	xref <category> <category>
//	deep <category>
func parseAction(cfg *config.GameConfig, cmd string, args []string) (game.Action, error) {
	need := func(n int, usage string) error {
		if len(args) < n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}
	switch cmd {
	case "verify", "v":
		if err := need(2, "verify <category> <attribute>"); err != nil {
			return game.Action{}, err
		}
		cat, err := parseCategory(args[0])
		if err != nil {
			return game.Action{}, err
		}
		attr, err := parseAttribute(cfg, cat, args[1:])
		if err != nil {
			return game.Action{}, err
		}
		return game.Verify(cat, attr), nil
	case "scan", "s":
		if err := need(1, "scan <category>"); err != nil {
			return game.Action{}, err
		}
		cat, err := parseCategory(args[0])
		if err != nil {
			return game.Action{}, err
		}
		return game.Scan(cat), nil
	case "xref", "x":
		if err := need(2, "xref <category> <category>"); err != nil {
			return game.Action{}, err
		}
		first, err := parseCategory(args[0])
		if err != nil {
			return game.Action{}, err
		}
		second, err := parseCategory(args[1])
		if err != nil {
			return game.Action{}, err
		}
		return game.CrossReference(first, second), nil
	case "deep", "d":
		if err := need(1, "deep <category>"); err != nil {
			return game.Action{}, err
		}
		cat, err := parseCategory(args[0])
		if err != nil {
			return game.Action{}, err
		}
		return game.DeepInvestigation(cat), nil
	}
	return game.Action{}, fmt.Errorf("unknown action '%s'", cmd)
}

// markArgs is a parsed "mark <category> <status> <attribute>" command.
type markArgs struct {
	Category  config.Category
	Status    game.CellStatus
	Attribute config.Attribute
}

func parseMark(cfg *config.GameConfig, args []string) (markArgs, error) {
	if len(args) < 3 {
		return markArgs{}, fmt.Errorf("usage: mark <category> <status> <attribute>")
	}
	cat, err := parseCategory(args[0])
	if err != nil {
		return markArgs{}, err
	}
	status, ok := game.ParseCellStatus(args[1])
	if !ok {
		return markArgs{}, fmt.Errorf("unknown status '%s' (unknown, confirmed, likely, uncertain, eliminated)", args[1])
	}
	attr, err := parseAttribute(cfg, cat, args[2:])
	if err != nil {
		return markArgs{}, err
	}
	return markArgs{Category: cat, Status: status, Attribute: attr}, nil
}

// parseBluffTarget reads an optional category argument. No argument means an
// untargeted bluff.
func parseBluffTarget(args []string) (*config.Category, error) {
	if len(args) == 0 {
		return nil, nil
	}
	cat, err := parseCategory(args[0])
	if err != nil {
		return nil, err
	}
	return &cat, nil
}
