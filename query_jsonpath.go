package params

import (
	"time"

	"github.com/theory/jsonpath"
)

// QueryPath evaluates an RFC 9535 JSONPath expression (for example
// "$.nested.str" or "$..str") against the snapshot and returns every
// matching node.
func (c *Container) QueryPath(expression string) ([]any, error) {
	if c == nil {
		return nil, nil
	}
	start := time.Now()
	nodes, err := c.queryPath(expression)
	c.config().logQuery("jsonpath", expression, start, err)
	return nodes, err
}

func (c *Container) queryPath(expression string) ([]any, error) {
	path, err := c.compileJSONPath(expression)
	if err != nil {
		return nil, err
	}
	snapshot, err := c.Snapshot()
	if err != nil {
		return nil, err
	}
	return []any(path.Select(snapshot)), nil
}

func (c *Container) compileJSONPath(expression string) (*jsonpath.Path, error) {
	cacheKey := "jsonpath:" + expression
	if cache := c.config().programCache; cache != nil {
		if cached, ok := cache.Get(cacheKey); ok {
			if path, ok := cached.(*jsonpath.Path); ok {
				return path, nil
			}
		}
	}
	path, err := jsonpath.Parse(expression)
	if err != nil {
		return nil, &QuerySyntaxError{
			Engine:     "jsonpath",
			Expression: expression,
			Offset:     -1,
			Err:        err,
		}
	}
	if cache := c.config().programCache; cache != nil {
		cache.Set(cacheKey, path)
	}
	return path, nil
}
