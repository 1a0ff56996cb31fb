package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"
)

// DefaultQuery selects every top-level value.
const DefaultQuery = "*"

// Query evaluates a JMESPath expression against the container. An empty
// expression means DefaultQuery.
//
// Field access, quoted keys, wildcards, [n] indexes, multi-select lists and
// || are evaluated over the container itself, so wildcard results follow
// insertion order. Other JMESPath constructs run through go-jmespath over the
// snapshot, where every number is a float64. Malformed expressions return a
// *QuerySyntaxError.
func (c *Container) Query(expression string) (any, error) {
	if strings.TrimSpace(expression) == "" {
		expression = DefaultQuery
	}
	if c == nil {
		return nil, nil
	}
	start := time.Now()
	result, err := c.query(expression)
	c.config().logQuery("jmespath", expression, start, err)
	return result, err
}

func (c *Container) query(expression string) (any, error) {
	program, err := c.compileQuery(expression)
	if err != nil {
		return nil, err
	}
	if path, ok := parsePath(expression); ok {
		return plainResult(path.eval(c))
	}
	snapshot, err := c.Snapshot()
	if err != nil {
		return nil, err
	}
	result, err := program.Search(jmespathNumbers(snapshot))
	if err != nil {
		return nil, fmt.Errorf("params: jmespath query %s: %w", describeExpression(expression), err)
	}
	return result, nil
}

func (c *Container) compileQuery(expression string) (*jmespath.JMESPath, error) {
	cacheKey := "jmespath:" + expression
	if cache := c.config().programCache; cache != nil {
		if cached, ok := cache.Get(cacheKey); ok {
			if program, ok := cached.(*jmespath.JMESPath); ok {
				return program, nil
			}
		}
	}
	program, err := jmespath.Compile(expression)
	if err != nil {
		offset := -1
		var syntaxErr jmespath.SyntaxError
		if errors.As(err, &syntaxErr) {
			offset = syntaxErr.Offset
		}
		return nil, &QuerySyntaxError{
			Engine:     "jmespath",
			Expression: expression,
			Offset:     offset,
			Err:        err,
		}
	}
	if cache := c.config().programCache; cache != nil {
		cache.Set(cacheKey, program)
	}
	return program, nil
}

// plainResult turns query output that may hold containers into plain data.
func plainResult(value any) (any, error) {
	switch typed := value.(type) {
	case *Container:
		return typed.Snapshot()
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			plain, err := plainResult(item)
			if err != nil {
				return nil, err
			}
			out[i] = plain
		}
		return out, nil
	default:
		return snapshotLeaf(value)
	}
}

// jmespathNumbers converts numbers to float64, the only numeric type
// go-jmespath compares and passes to its functions.
func jmespathNumbers(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		for key, item := range typed {
			typed[key] = jmespathNumbers(item)
		}
		return typed
	case []any:
		for i, item := range typed {
			typed[i] = jmespathNumbers(item)
		}
		return typed
	case int:
		return float64(typed)
	case int8:
		return float64(typed)
	case int16:
		return float64(typed)
	case int32:
		return float64(typed)
	case int64:
		return float64(typed)
	case uint:
		return float64(typed)
	case uint8:
		return float64(typed)
	case uint16:
		return float64(typed)
	case uint32:
		return float64(typed)
	case uint64:
		return float64(typed)
	case float32:
		return float64(typed)
	case json.Number:
		if f, err := typed.Float64(); err == nil {
			return f
		}
		return typed.String()
	default:
		return value
	}
}
