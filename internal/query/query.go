// Package query evaluates expressions against structured record values.
//
// An expression is JMESPath, or a shell command written as $(command) which
// receives the value on stdin.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"

	"github.com/studiowebux/dbedit/internal/content"
)

const (
	// ShellTimeout is the maximum time allowed for query shell command execution
	ShellTimeout = 30 * time.Second
)

var (
	// ErrNotStructured is returned when a JMESPath expression is applied to a plain value
	ErrNotStructured = errors.New("value is not structured")

	// Shell command pattern: $(command)
	shellPattern = regexp.MustCompile(`^\$\((.+)\)$`)
)

// Apply evaluates expr against value. JMESPath results are returned in
// display form; shell output is returned trimmed.
func Apply(ctx context.Context, value string, expr string) (string, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return content.DisplayForm(value), nil
	}

	if matches := shellPattern.FindStringSubmatch(expr); len(matches) > 1 {
		return executeShellCommand(ctx, value, matches[1])
	}

	if content.Detect(value) != content.Structured {
		return "", ErrNotStructured
	}
	return applyJMESPath(value, expr)
}

// applyJMESPath applies a JMESPath expression to a JSON string
func applyJMESPath(jsonStr string, expression string) (string, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotStructured, err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	// Handle null result
	if result == nil {
		return "null", nil
	}

	output, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return content.DisplayForm(string(output)), nil
}

// executeShellCommand executes a shell command with the value piped to stdin
func executeShellCommand(ctx context.Context, value string, command string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Stdin = strings.NewReader(value)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		errMsg := err.Error()
		if stderr.Len() > 0 {
			errMsg = strings.TrimSpace(stderr.String())
		}
		return "", fmt.Errorf("command '%s' failed: %s", command, errMsg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsValid checks if an expression is a shell command or valid JMESPath syntax
func IsValid(expression string) bool {
	if IsShellCommand(expression) {
		return true
	}
	_, err := jmespath.Compile(expression)
	return err == nil
}

// IsShellCommand checks if an expression is a shell command (starts with $(...))
func IsShellCommand(expression string) bool {
	return shellPattern.MatchString(strings.TrimSpace(expression))
}
