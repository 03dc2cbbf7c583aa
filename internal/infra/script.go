package infra

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"github.com/winterwar/wwlauncher/internal/domain"
)

// Batch script template (Windows). The command line is pre-quoted.
const batchTemplate = `@echo off
rem Generated by wwlauncher, overwritten on every launch.
{{.CommandLine}}
`

// Shell script template (everything else).
const shellTemplate = `#!/bin/sh
# Generated by wwlauncher, overwritten on every launch.
exec {{.CommandLine}}
`

// Silent proxy for Windows: runs the batch file with a hidden window.
const vbsProxy = `Set shell = CreateObject("WScript.Shell")
shell.Run """" & WScript.Arguments(0) & """", 0, False
`

const proxyScriptName = "LaunchWinterWarSilent.vbs"

type scriptConfig struct {
	CommandLine string
}

// ScriptWriterImpl implements domain.ScriptWriter for one target OS.
type ScriptWriterImpl struct {
	goos string
}

// NewScriptWriter creates a script writer for the running OS.
func NewScriptWriter() *ScriptWriterImpl {
	return NewScriptWriterFor(runtime.GOOS)
}

// NewScriptWriterFor creates a script writer for goos (for testing).
func NewScriptWriterFor(goos string) *ScriptWriterImpl {
	return &ScriptWriterImpl{goos: goos}
}

// ScriptName returns the intermediate script file name for the target OS.
func (w *ScriptWriterImpl) ScriptName() string {
	if w.goos == "windows" {
		return "LaunchWinterWar.bat"
	}
	return "LaunchWinterWar.sh"
}

// Render returns the script content for argv.
func (w *ScriptWriterImpl) Render(argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	tmplText := shellTemplate
	quote := shellQuote
	if w.goos == "windows" {
		tmplText = batchTemplate
		quote = batchQuote
	}

	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = quote(a)
	}

	tmpl, err := template.New("script").Parse(tmplText)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, scriptConfig{CommandLine: strings.Join(quoted, " ")}); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	if w.goos == "windows" {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte("\r\n"))
	}
	return out, nil
}

// Write overwrites path with a script running argv.
func (w *ScriptWriterImpl) Write(path string, argv []string) error {
	content, err := w.Render(argv)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create script directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0755); err != nil {
		return fmt.Errorf("failed to write launch script: %w", err)
	}
	return nil
}

// ProxyCommand returns the silent command running the script at path.
// On Windows the VBScript proxy is (re)written next to the script.
func (w *ScriptWriterImpl) ProxyCommand(path string) (domain.CommandSpec, error) {
	if w.goos != "windows" {
		return domain.CommandSpec{Name: "/bin/sh", Args: []string{path}, Dir: filepath.Dir(path)}, nil
	}

	proxyPath := filepath.Join(filepath.Dir(path), proxyScriptName)
	if err := os.WriteFile(proxyPath, []byte(strings.ReplaceAll(vbsProxy, "\n", "\r\n")), 0644); err != nil {
		return domain.CommandSpec{}, fmt.Errorf("failed to write proxy script: %w", err)
	}
	return domain.CommandSpec{
		Name: "wscript.exe",
		Args: []string{"//B", "//Nologo", proxyPath, path},
		Dir:  filepath.Dir(path),
	}, nil
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`&|;<>()*?[]#~!{}") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func batchQuote(s string) string {
	// start's first quoted argument is the window title.
	if s == "" {
		return `""`
	}
	s = strings.ReplaceAll(s, "%", "%%")
	if !strings.ContainsAny(s, " \t&|<>^\"") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Ensure ScriptWriterImpl implements domain.ScriptWriter.
var _ domain.ScriptWriter = (*ScriptWriterImpl)(nil)
