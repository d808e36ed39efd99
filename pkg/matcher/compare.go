package matcher

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/7sDream/geko"
	"go.uber.org/zap"

	"go.datamatch.io/engine/pkg/matcher/directives"
	"go.datamatch.io/engine/pkg/models"
)

// pathSeg is one segment of the traversal path. Array indices render as
// "[i]", keys as ".key".
type pathSeg struct {
	name  string
	index bool
}

func keySeg(k string) pathSeg  { return pathSeg{name: k} }
func indexSeg(i int) pathSeg   { return pathSeg{name: fmt.Sprint(i), index: true} }
func renderPath(segs []pathSeg) string {
	if len(segs) == 0 {
		return "root"
	}
	var b strings.Builder
	for i, s := range segs {
		if s.index {
			b.WriteString("[" + s.name + "]")
			continue
		}
		if i > 0 {
			b.WriteString(".")
		}
		b.WriteString(s.name)
	}
	return b.String()
}

// childPath copies so sibling branches never share a backing array.
func childPath(path []pathSeg, s pathSeg) []pathSeg {
	p := make([]pathSeg, len(path)+1)
	copy(p, path)
	p[len(path)] = s
	return p
}

// object is a uniform view over plain maps and order-preserving geko objects.
// Plain map keys are sorted so detail ordering is deterministic; geko keys
// keep document order.
type object struct {
	keys []string
	vals map[string]any
}

func asObject(v any) (*object, bool) {
	switch m := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return &object{keys: keys, vals: m}, true
	case geko.ObjectItems:
		keys := m.Keys()
		vals := m.Values()
		o := &object{vals: make(map[string]any, len(keys))}
		for i, k := range keys {
			if _, dup := o.vals[k]; !dup {
				o.keys = append(o.keys, k)
			}
			o.vals[k] = vals[i]
		}
		return o, true
	}
	return nil, false
}

func asSequence(v any) ([]any, bool) {
	switch a := v.(type) {
	case []any:
		return a, true
	case geko.Array:
		return a.List, true
	}
	return nil, false
}

// Comparer walks an expected/actual pair depth-first and accumulates a
// structured report. All state is per invocation; Compare resets it, so a
// fresh instance (or a state-reset call) per comparison keeps calls
// idempotent.
type Comparer struct {
	registry *Registry
	logger   *zap.Logger
	ctx      models.CompareContext
	opts     models.CompareOptions

	errors          []models.CompareError
	details         []models.CompareDetail
	depth           int
	maxDepthReached int
}

// NewComparer returns a comparer bound to a registry, context and options.
func NewComparer(registry *Registry, logger *zap.Logger, ctx models.CompareContext, opts models.CompareOptions) *Comparer {
	return &Comparer{
		registry: registry,
		logger:   logger,
		ctx:      ctx,
		opts:     opts,
	}
}

// Compare runs one full comparison, resetting all accumulated state first.
func (c *Comparer) Compare(expected, actual any) {
	c.errors = nil
	c.details = nil
	c.depth = 0
	c.maxDepthReached = 0
	c.compareNode(expected, actual, nil)
}

// Errors returns the accumulated error log.
func (c *Comparer) Errors() []models.CompareError { return c.errors }

// Details returns the accumulated detail log.
func (c *Comparer) Details() []models.CompareDetail { return c.details }

// MaxDepthReached returns the deepest node visited by the last Compare.
func (c *Comparer) MaxDepthReached() int { return c.maxDepthReached }

func (c *Comparer) addDetail(path []pathSeg, expected, actual any, msg string) {
	c.details = append(c.details, models.CompareDetail{
		Path:     renderPath(path),
		Passed:   true,
		Expected: expected,
		Actual:   actual,
		Message:  msg,
	})
}

// fail records a failed check in both logs.
func (c *Comparer) fail(path []pathSeg, typ string, expected, actual any, msg string) {
	p := renderPath(path)
	c.errors = append(c.errors, models.CompareError{
		Path:     p,
		Type:     typ,
		Expected: expected,
		Actual:   actual,
		Message:  msg,
	})
	c.details = append(c.details, models.CompareDetail{
		Path:     p,
		Passed:   false,
		Expected: expected,
		Actual:   actual,
		Message:  msg,
	})
}

func (c *Comparer) compareNode(expected, actual any, path []pathSeg) {
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > c.maxDepthReached {
		c.maxDepthReached = c.depth
	}
	if c.opts.MaxDepth > 0 && c.depth > c.opts.MaxDepth {
		c.fail(path, models.ErrDirective, expected, actual,
			fmt.Sprintf("maximum comparison depth %d exceeded", c.opts.MaxDepth))
		return
	}
	if c.opts.MaxErrors > 0 && len(c.errors) >= c.opts.MaxErrors {
		return
	}
	if cfg, ok := c.ignoredPath(path); ok {
		c.addDetail(path, expected, actual,
			fmt.Sprintf("suppressed by ignore path %q", strings.Join(cfg.Path, ".")))
		return
	}

	if expected == nil {
		if actual == nil {
			c.addDetail(path, nil, nil, "both values are null")
			return
		}
		c.fail(path, models.ErrValueMismatch, nil, actual, "expected null")
		return
	}

	if KeywordOf(expected) == KeywordIgnore {
		c.addDetail(path, expected, actual, "value ignored")
		return
	}

	if s, ok := expected.(string); ok && IsDirective(s) {
		c.evalDirective(s, actual, path)
		return
	}

	if seq, ok := asSequence(expected); ok {
		actSeq, ok := asSequence(actual)
		if !ok {
			c.fail(path, models.ErrTypeMismatch, expected, actual,
				fmt.Sprintf("expected an array, got %s", directives.TypeName(actual)))
			return
		}
		c.compareArray(seq, actSeq, path)
		return
	}

	if obj, ok := asObject(expected); ok {
		actObj, ok := asObject(actual)
		if !ok {
			c.fail(path, models.ErrTypeMismatch, expected, actual,
				fmt.Sprintf("expected an object, got %s", directives.TypeName(actual)))
			return
		}
		c.compareObject(obj, actObj, path)
		return
	}

	c.compareScalar(expected, actual, path)
}

// evalDirective resolves and evaluates one directive occurrence. Every
// failure, including a panic inside a registered extension, becomes a
// localized directive-error.
func (c *Comparer) evalDirective(s string, actual any, path []pathSeg) {
	defer func() {
		if r := recover(); r != nil {
			if c.logger != nil {
				c.logger.Error("directive evaluation panicked",
					zap.String("directive", s), zap.Any("panic", r))
			}
			c.fail(path, models.ErrDirective, s, actual, fmt.Sprintf("directive panicked: %v", r))
		}
	}()

	d, err := Parse(s)
	if err != nil {
		c.fail(path, models.ErrDirective, s, actual, err.Error())
		return
	}
	if IsKeyword(d.Action) && len(d.Args) == 0 {
		c.fail(path, models.ErrDirective, s, actual,
			fmt.Sprintf("structural keyword %q is not valid as a value", d.Action))
		return
	}
	h, err := c.registry.GetDirective(d.Action)
	if err != nil {
		c.fail(path, models.ErrDirective, s, actual, err.Error())
		return
	}
	pred, err := h.Compile(d, c.ctx)
	if err != nil {
		c.fail(path, models.ErrDirective, s, actual, err.Error())
		return
	}
	res := pred(actual)
	if res.Passed {
		c.addDetail(path, s, actual, res.Message)
		return
	}
	typ := res.ErrorType
	if typ == "" {
		typ = models.ErrPatternMismatch
	}
	c.fail(path, typ, s, actual, res.Message)
}

func (c *Comparer) compareObject(exp, act *object, path []pathSeg) {
	marker := Keyword(KeywordExact)
	exact := c.opts.StrictMode
	if v, ok := exp.vals[marker]; ok {
		if b, _ := v.(bool); b {
			exact = true
		}
	}

	for _, k := range exp.keys {
		if k == marker {
			continue
		}
		p := childPath(path, keySeg(k))
		av, present := act.vals[k]
		if !present {
			c.fail(p, models.ErrMissingProperty, exp.vals[k], nil,
				fmt.Sprintf("missing property %q", k))
			continue
		}
		c.compareNode(exp.vals[k], av, p)
	}

	if exact || !c.opts.IgnoreExtraProperties {
		for _, k := range act.keys {
			if _, ok := exp.vals[k]; ok {
				continue
			}
			c.fail(childPath(path, keySeg(k)), models.ErrExtraProperty, nil, act.vals[k],
				fmt.Sprintf("unexpected property %q", k))
		}
	}
}

func (c *Comparer) compareArray(exp, act []any, path []pathSeg) {
	var ignoreOrder, ignoreRest bool
	stripped := make([]any, 0, len(exp))
	for _, v := range exp {
		switch KeywordOf(v) {
		case KeywordIgnoreOrder:
			ignoreOrder = true
		case KeywordIgnoreRest:
			ignoreRest = true
		default:
			stripped = append(stripped, v)
		}
	}
	switch {
	case ignoreOrder:
		c.compareArrayUnordered(stripped, act, path)
	case ignoreRest:
		c.compareArrayPartial(stripped, act, path)
	default:
		c.compareArrayOrdered(stripped, act, path)
	}
}

func (c *Comparer) compareArrayOrdered(exp, act []any, path []pathSeg) {
	if len(exp) != len(act) {
		c.fail(path, models.ErrArrayLengthMismatch, len(exp), len(act),
			fmt.Sprintf("expected %d elements, got %d", len(exp), len(act)))
	}
	n := len(exp)
	if len(act) < n {
		n = len(act)
	}
	for i := 0; i < n; i++ {
		c.compareElement(exp[i], act[i], path, i)
	}
}

// compareArrayUnordered greedily pairs each expected element with the first
// unconsumed actual element that passes an isolated trial comparison. No
// actual element may satisfy two expected elements.
func (c *Comparer) compareArrayUnordered(exp, act []any, path []pathSeg) {
	if len(exp) != len(act) {
		c.fail(path, models.ErrArrayLengthMismatch, len(exp), len(act),
			fmt.Sprintf("expected %d elements, got %d", len(exp), len(act)))
		return
	}
	consumed := make([]bool, len(act))
	for i, ev := range exp {
		p := childPath(path, indexSeg(i))
		matched := -1
		for j, av := range act {
			if consumed[j] {
				continue
			}
			trial := NewComparer(c.registry, c.logger, c.ctx, c.opts)
			trial.Compare(ev, av)
			if len(trial.errors) == 0 {
				matched = j
				break
			}
		}
		if matched == -1 {
			c.fail(p, models.ErrArrayElementMismatch, ev, nil,
				"no remaining actual element matches")
			continue
		}
		consumed[matched] = true
		c.addDetail(p, ev, act[matched],
			fmt.Sprintf("matched actual element at index %d", matched))
	}
}

func (c *Comparer) compareArrayPartial(exp, act []any, path []pathSeg) {
	if len(act) < len(exp) {
		c.fail(path, models.ErrArrayLengthMismatch, len(exp), len(act),
			fmt.Sprintf("expected at least %d elements, got %d", len(exp), len(act)))
		return
	}
	for i := range exp {
		c.compareElement(exp[i], act[i], path, i)
	}
}

func (c *Comparer) compareElement(ev, av any, path []pathSeg, i int) {
	p := childPath(path, indexSeg(i))
	if KeywordOf(ev) == KeywordIgnore {
		c.addDetail(p, ev, av, "element ignored")
		return
	}
	c.compareNode(ev, av, p)
}

func (c *Comparer) compareScalar(expected, actual any, path []pathSeg) {
	if scalarEqual(expected, actual) {
		c.addDetail(path, expected, actual, "values are equal")
		return
	}
	ek, ak := directives.TypeName(expected), directives.TypeName(actual)
	if ek != ak {
		c.fail(path, models.ErrTypeMismatch, expected, actual,
			fmt.Sprintf("expected %s, got %s", ek, ak))
		return
	}
	c.fail(path, models.ErrValueMismatch, expected, actual,
		fmt.Sprintf("expected %v, got %v", expected, actual))
}

// ignoredPath reports whether any configured ignore path is a prefix of the
// current path. The segment "*" matches any key or index.
func (c *Comparer) ignoredPath(path []pathSeg) (models.IgnorePathConfig, bool) {
	for _, cfg := range c.opts.IgnorePaths {
		if len(cfg.Path) == 0 || len(cfg.Path) > len(path) {
			continue
		}
		matched := true
		for i, seg := range cfg.Path {
			if seg != "*" && seg != path[i].name {
				matched = false
				break
			}
		}
		if matched {
			return cfg, true
		}
	}
	return models.IgnorePathConfig{}, false
}

// scalarEqual compares numbers numerically so a YAML int equals a JSON
// float; everything else is strict equality.
func scalarEqual(a, b any) bool {
	if fa, ok := directives.ToFloat(a); ok {
		fb, ok := directives.ToFloat(b)
		return ok && fa == fb
	}
	if _, ok := directives.ToFloat(b); ok {
		return false
	}
	return reflect.DeepEqual(a, b)
}
