package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfig []byte

// AttributesPerCategory is the size of every category's candidate list.
const AttributesPerCategory = 4

// ActionCosts holds the action-point price of every investigative action.
type ActionCosts struct {
	Verify            int `yaml:"verify"`
	Scan              int `yaml:"scan"`
	CrossReference    int `yaml:"crossReference"`
	DeepInvestigation int `yaml:"deepInvestigation"`
}

// Rules holds the difficulty-independent constants of the game.
type Rules struct {
	ActionAllowance int         `yaml:"actionAllowance"`
	BluffTokens     int         `yaml:"bluffTokens"`
	ActionCosts     ActionCosts `yaml:"actionCosts"`

	// Verify confidence draws: correct reports land in [CorrectMin, CorrectMax],
	// incorrect ones in [0, IncorrectMax).
	CorrectMin   int `yaml:"correctMin"`
	CorrectMax   int `yaml:"correctMax"`
	IncorrectMax int `yaml:"incorrectMax"`

	// Confidence to status bands.
	ConfirmedAt      int `yaml:"confirmedAt"`
	LikelyAt         int `yaml:"likelyAt"`
	UncertainAbove   int `yaml:"uncertainAbove"`
	SpecialistBonus  int `yaml:"specialistBonus"`
	MaxConfidence    int `yaml:"maxConfidence"`
	CertainKnowledge int `yaml:"certainKnowledge"`

	DeepSuccessChance       float64 `yaml:"deepSuccessChance"`
	DeepSpecialistBonus     float64 `yaml:"deepSpecialistBonus"`
	DeepSuccessCap          float64 `yaml:"deepSuccessCap"`
	SpecialistRevealChance  float64 `yaml:"specialistRevealChance"`
	CriticalIntelDivisor    float64 `yaml:"criticalIntelDivisor"`
	UrgencyWindow           int     `yaml:"urgencyWindow"`
	BluffMinTurn            int     `yaml:"bluffMinTurn"`
	CrossReferenceNoise     float64 `yaml:"crossReferenceNoise"`
	NoveltyMemory           int     `yaml:"noveltyMemory"`
	PartialHintMinAttrs     int     `yaml:"partialHintMinAttributes"`
	PartialHintMaxAttrs     int     `yaml:"partialHintMaxAttributes"`
	InitialBeliefPerAttr    float64 `yaml:"initialBelief"`
	SimulationTurnSafetyCap int     `yaml:"simulationTurnSafetyCap"`
}

// DifficultyRules holds every difficulty-scaled setting.
type DifficultyRules struct {
	CorrelationChance  float64       `yaml:"correlationChance"`
	CorrelationTable   string        `yaml:"correlationTable"`
	CertainFacts       int           `yaml:"certainFacts"`
	PartialHint        bool          `yaml:"partialHint"`
	MaxTurns           int           `yaml:"maxTurns"`
	AIBluffChance      float64       `yaml:"aiBluffChance"`
	ThinkingDelay      time.Duration `yaml:"thinkingDelay"`
	ActingDelay        time.Duration `yaml:"actingDelay"`
	AIUsesCorrelations bool          `yaml:"aiUsesCorrelations"`
}

// GameConfig holds the static definitions for a game of Encrypted Signatures.
type GameConfig struct {
	Rules           Rules
	Catalog         map[Category][]Attribute
	Difficulties    map[Difficulty]DifficultyRules
	Correlations    map[string]map[Attribute][]Attribute
	Specializations map[Specialization][]Category

	attrToCategory map[Attribute]Category
}

type document struct {
	Categories []struct {
		Name       string   `yaml:"name"`
		Attributes []string `yaml:"attributes"`
	} `yaml:"categories"`
	Rules           Rules                          `yaml:"rules"`
	Difficulties    map[string]DifficultyRules     `yaml:"difficulties"`
	Correlations    map[string]map[string][]string `yaml:"correlations"`
	Specializations map[string][]string            `yaml:"specializations"`
}

// Default returns the embedded configuration.
func Default() (*GameConfig, error) {
	return Parse(defaultConfig)
}

// Load reads, parses, and validates the configuration at path. An empty path
// selects the embedded default.
func Load(path string) (*GameConfig, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML configuration document and validates it.
func Parse(data []byte) (*GameConfig, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg := &GameConfig{
		Rules:           doc.Rules,
		Catalog:         make(map[Category][]Attribute),
		Difficulties:    make(map[Difficulty]DifficultyRules),
		Correlations:    make(map[string]map[Attribute][]Attribute),
		Specializations: make(map[Specialization][]Category),
		attrToCategory:  make(map[Attribute]Category),
	}

	for _, c := range doc.Categories {
		cat, ok := ParseCategory(c.Name)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", c.Name)
		}
		if _, dup := cfg.Catalog[cat]; dup {
			return nil, fmt.Errorf("category %q defined twice", c.Name)
		}
		if len(c.Attributes) != AttributesPerCategory {
			return nil, fmt.Errorf("category %q must define exactly %d attributes, got %d", c.Name, AttributesPerCategory, len(c.Attributes))
		}
		for _, a := range c.Attributes {
			attr := Attribute(a)
			if prev, dup := cfg.attrToCategory[attr]; dup {
				return nil, fmt.Errorf("attribute %q appears in both %s and %s", a, prev, cat)
			}
			cfg.attrToCategory[attr] = cat
			cfg.Catalog[cat] = append(cfg.Catalog[cat], attr)
		}
	}
	if len(cfg.Catalog) != len(Categories) {
		return nil, fmt.Errorf("expected %d categories, got %d", len(Categories), len(cfg.Catalog))
	}

	for name, table := range doc.Correlations {
		converted := make(map[Attribute][]Attribute)
		for loc, linked := range table {
			if cat, ok := cfg.attrToCategory[Attribute(loc)]; !ok || cat != CategoryLocations {
				return nil, fmt.Errorf("correlation table %q is keyed by %q, which is not a location", name, loc)
			}
			for _, l := range linked {
				if _, ok := cfg.attrToCategory[Attribute(l)]; !ok {
					return nil, fmt.Errorf("correlation table %q references unknown attribute %q", name, l)
				}
				converted[Attribute(loc)] = append(converted[Attribute(loc)], Attribute(l))
			}
		}
		cfg.Correlations[name] = converted
	}

	for name, rules := range doc.Difficulties {
		d, ok := ParseDifficulty(name)
		if !ok {
			return nil, fmt.Errorf("unknown difficulty %q", name)
		}
		if rules.CorrelationChance < 0 || rules.CorrelationChance > 1 {
			return nil, fmt.Errorf("difficulty %q: correlation chance %v outside [0,1]", name, rules.CorrelationChance)
		}
		if rules.AIBluffChance < 0 || rules.AIBluffChance > 1 {
			return nil, fmt.Errorf("difficulty %q: bluff chance %v outside [0,1]", name, rules.AIBluffChance)
		}
		if _, ok := cfg.Correlations[rules.CorrelationTable]; !ok {
			return nil, fmt.Errorf("difficulty %q: unknown correlation table %q", name, rules.CorrelationTable)
		}
		if rules.MaxTurns < 1 {
			return nil, fmt.Errorf("difficulty %q: maxTurns must be positive", name)
		}
		cfg.Difficulties[d] = rules
	}
	for _, d := range Difficulties {
		if _, ok := cfg.Difficulties[d]; !ok {
			return nil, fmt.Errorf("difficulty %q is not configured", d)
		}
	}

	for name, cats := range doc.Specializations {
		sp, ok := ParseSpecialization(name)
		if !ok {
			return nil, fmt.Errorf("unknown specialization %q", name)
		}
		for _, c := range cats {
			cat, ok := ParseCategory(c)
			if !ok {
				return nil, fmt.Errorf("specialization %q: unknown category %q", name, c)
			}
			cfg.Specializations[sp] = append(cfg.Specializations[sp], cat)
		}
	}

	if err := cfg.Rules.validate(); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	return cfg, nil
}

// validate checks every range the engine and the reasoners draw from.
func (r Rules) validate() error {
	if r.ActionAllowance <= 0 {
		return fmt.Errorf("action allowance must be positive")
	}
	if r.BluffTokens < 0 {
		return fmt.Errorf("bluff tokens must not be negative")
	}
	costs := r.ActionCosts
	if costs.Verify <= 0 || costs.Scan <= 0 || costs.CrossReference <= 0 || costs.DeepInvestigation <= 0 {
		return fmt.Errorf("action costs must be positive")
	}
	if r.PartialHintMinAttrs < 2 || r.PartialHintMinAttrs > r.PartialHintMaxAttrs || r.PartialHintMaxAttrs > AttributesPerCategory {
		return fmt.Errorf("partial hint size [%d,%d] must satisfy 2 <= min <= max <= %d",
			r.PartialHintMinAttrs, r.PartialHintMaxAttrs, AttributesPerCategory)
	}
	if r.CorrectMin < 0 || r.CorrectMin > r.CorrectMax || r.CorrectMax > r.MaxConfidence {
		return fmt.Errorf("correct confidence [%d,%d] must lie within [0,%d]", r.CorrectMin, r.CorrectMax, r.MaxConfidence)
	}
	if r.IncorrectMax <= 0 {
		return fmt.Errorf("incorrect confidence bound must be positive")
	}
	if r.CriticalIntelDivisor <= 0 {
		return fmt.Errorf("critical intel divisor must be positive")
	}
	if r.CrossReferenceNoise < 0 {
		return fmt.Errorf("cross-reference noise must not be negative")
	}
	if r.NoveltyMemory < 0 {
		return fmt.Errorf("novelty memory must not be negative")
	}
	for name, p := range map[string]float64{
		"deep success chance":      r.DeepSuccessChance,
		"deep specialist bonus":    r.DeepSpecialistBonus,
		"deep success cap":         r.DeepSuccessCap,
		"specialist reveal chance": r.SpecialistRevealChance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s %v outside [0,1]", name, p)
		}
	}
	return nil
}

// DeepCopy creates a new GameConfig with all slices and maps copied to prevent shared state.
func (c *GameConfig) DeepCopy() *GameConfig {
	newCfg := &GameConfig{
		Rules:           c.Rules,
		Catalog:         make(map[Category][]Attribute, len(c.Catalog)),
		Difficulties:    make(map[Difficulty]DifficultyRules, len(c.Difficulties)),
		Correlations:    make(map[string]map[Attribute][]Attribute, len(c.Correlations)),
		Specializations: make(map[Specialization][]Category, len(c.Specializations)),
		attrToCategory:  make(map[Attribute]Category, len(c.attrToCategory)),
	}
	for k, v := range c.Catalog {
		newCfg.Catalog[k] = append([]Attribute(nil), v...)
	}
	for k, v := range c.Difficulties {
		newCfg.Difficulties[k] = v
	}
	for name, table := range c.Correlations {
		t := make(map[Attribute][]Attribute, len(table))
		for k, v := range table {
			t[k] = append([]Attribute(nil), v...)
		}
		newCfg.Correlations[name] = t
	}
	for k, v := range c.Specializations {
		newCfg.Specializations[k] = append([]Category(nil), v...)
	}
	for k, v := range c.attrToCategory {
		newCfg.attrToCategory[k] = v
	}
	return newCfg
}

// Attributes returns the candidate attributes of a category in catalog order.
func (c *GameConfig) Attributes(cat Category) []Attribute {
	return c.Catalog[cat]
}

// CategoryOf reports which category owns attr.
func (c *GameConfig) CategoryOf(attr Attribute) (Category, bool) {
	cat, ok := c.attrToCategory[attr]
	return cat, ok
}

// Owns reports whether attr is a candidate of cat.
func (c *GameConfig) Owns(cat Category, attr Attribute) bool {
	owner, ok := c.attrToCategory[attr]
	return ok && owner == cat
}

// ForDifficulty returns the rules for d.
func (c *GameConfig) ForDifficulty(d Difficulty) DifficultyRules {
	return c.Difficulties[d]
}

// CorrelationTable returns the location-keyed correlation table used at d.
func (c *GameConfig) CorrelationTable(d Difficulty) map[Attribute][]Attribute {
	return c.Correlations[c.Difficulties[d].CorrelationTable]
}

// LinkedInCategory returns the attributes of cat that the table links to location.
func (c *GameConfig) LinkedInCategory(d Difficulty, location Attribute, cat Category) []Attribute {
	var linked []Attribute
	for _, a := range c.CorrelationTable(d)[location] {
		if c.Owns(cat, a) {
			linked = append(linked, a)
		}
	}
	return linked
}

// Linked reports whether the correlation table at d ties a and b together,
// i.e. both belong to the cluster of one location (the location itself included).
func (c *GameConfig) Linked(d Difficulty, a, b Attribute) bool {
	for loc, attrs := range c.CorrelationTable(d) {
		if inCluster(loc, attrs, a) && inCluster(loc, attrs, b) {
			return true
		}
	}
	return false
}

// Associates returns every attribute outside attr's own category that the
// table at d links with attr, in catalog order.
func (c *GameConfig) Associates(d Difficulty, attr Attribute) []Attribute {
	own, _ := c.CategoryOf(attr)
	var out []Attribute
	for _, cat := range Categories {
		if cat == own {
			continue
		}
		for _, other := range c.Attributes(cat) {
			if c.Linked(d, attr, other) {
				out = append(out, other)
			}
		}
	}
	return out
}

// Covers reports whether specialization sp biases outcomes for cat.
func (c *GameConfig) Covers(sp Specialization, cat Category) bool {
	for _, covered := range c.Specializations[sp] {
		if covered == cat {
			return true
		}
	}
	return false
}

func inCluster(location Attribute, linked []Attribute, a Attribute) bool {
	if a == location {
		return true
	}
	for _, l := range linked {
		if l == a {
			return true
		}
	}
	return false
}
