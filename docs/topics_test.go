package docs

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestGet(t *testing.T) {
	topics, err := Topics()
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) == 0 {
		t.Fatal("Topics() is empty")
	}

	index, err := Get("readme")
	if err != nil {
		t.Fatalf("Get(readme) error = %v", err)
	}
	for _, topic := range topics {
		if _, err := Get(topic.Name); err != nil {
			t.Errorf("Get(%q) error = %v", topic.Name, err)
		}
		if line := fmt.Sprintf("* %s: %s\n", topic.Name, topic.Title); !strings.Contains(index, line) {
			t.Errorf("readme index does not contain %q", line)
		}
	}

	_, err = Get("ledger")
	if !errors.Is(err, ErrUnknownTopic) {
		t.Fatalf("Get(ledger) error = %v, want ErrUnknownTopic", err)
	}
	if !strings.Contains(err.Error(), "available topics: readme, ") {
		t.Errorf("Get(ledger) error = %q, want the available topics", err)
	}
}

func TestGetAll(t *testing.T) {
	all, err := GetAll("*")
	if err != nil {
		t.Fatal(err)
	}
	topics, _ := Topics()
	for _, topic := range topics {
		if !strings.Contains(all, "# "+topic.Title+"\n") {
			t.Errorf("GetAll(*) is missing topic %q", topic.Name)
		}
	}
	if _, err := GetAll("keys", "nope"); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("GetAll() error = %v, want ErrUnknownTopic", err)
	}
}

func TestHeadings(t *testing.T) {
	// The title of a topic is its first line, it must be a level 1 heading.
	matches, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range matches {
		t.Run(file, func(t *testing.T) {
			content, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}
			root := goldmark.DefaultParser().Parse(text.NewReader(content))
			h, ok := root.FirstChild().(*ast.Heading)
			if !ok || h.Level != 1 {
				t.Errorf("%s does not start with a level 1 heading", file)
			}
		})
	}
}

// Scenarios are fenced blocks run in order in a fresh directory:
// 'bash setup' prepares files, 'bash run' executes snapdiff, and
// 'console check' holds the expected output of the previous run.
const (
	bashSetup    = "bash setup"
	bashRun      = "bash run"
	consoleCheck = "console check"
)

type block struct {
	kind    string
	content string
	line    int
}

func TestScenarios(t *testing.T) {
	matches, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	var bin string
	for _, file := range append(matches, "../README.md") {
		content, err := os.ReadFile(file)
		if err != nil {
			t.Fatal(err)
		}
		blocks := scenarioBlocks(content)
		if len(blocks) == 0 {
			continue
		}
		if bin == "" {
			bin = buildSnapdiff(t)
		}
		t.Run(file, func(t *testing.T) {
			runScenario(t, bin, file, blocks)
		})
	}
}

// scenarioBlocks returns the scenario blocks of a markdown file.
func scenarioBlocks(content []byte) []block {
	var blocks []block
	root := goldmark.DefaultParser().Parse(text.NewReader(content))
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		kind := string(fcb.Info.Segment.Value(content))
		switch kind {
		case bashSetup, bashRun, consoleCheck:
		default:
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			seg := fcb.Lines().At(i)
			b.Write(seg.Value(content))
		}
		line := strings.Count(string(content[:fcb.Info.Segment.Start]), "\n") + 1
		blocks = append(blocks, block{kind: kind, content: b.String(), line: line})
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// buildSnapdiff compiles the command into a temporary directory.
func buildSnapdiff(t *testing.T) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "snapdiff")
	if out, err := exec.Command("go", "build", "-o", bin, "../snapdiff/").CombinedOutput(); err != nil {
		t.Fatalf("failed to build snapdiff: %v\n%s", err, out)
	}
	return bin
}

func runScenario(t *testing.T, bin, file string, blocks []block) {
	path := fmt.Sprintf("PATH=%s%c%s", filepath.Dir(bin), os.PathListSeparator, os.Getenv("PATH"))
	// Logs go to stderr, which is part of the checked output.
	env := append(os.Environ(), path, "SNAPDIFF_LOG_LEVEL=error", "SNAPDIFF_TOP_N=100", "SNAPDIFF_CURRENCY=")

	dir := t.TempDir()
	var output string
	for _, b := range blocks {
		if b.kind == consoleCheck {
			got, want := strings.TrimSpace(output), strings.TrimSpace(b.content)
			if got != want {
				t.Errorf("%s:%d: output mismatch:\ngot:\n%s\nwant:\n%s", file, b.line, got, want)
			}
			continue
		}
		if b.kind == bashSetup {
			dir = t.TempDir()
		}
		cmd := exec.Command("bash", "-c", "set -e; "+b.content)
		cmd.Dir = dir
		cmd.Env = env
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("%s:%d: %s failed: %v\n%s", file, b.line, b.kind, err, out)
		}
		output = string(out)
	}
}
