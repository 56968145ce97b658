package flagurl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"MedalTally/internal/interfaces"

	"golang.org/x/term"
)

// TerminalPrompter 在终端询问国旗地址
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

func (p *TerminalPrompter) PromptFlagURL(countryName string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "未找到 %s 的国旗图片，请输入地址（回车使用占位图）: ", countryName); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// StdinPrompter 标准输入是终端时返回 TerminalPrompter，否则返回 nil（不询问）
func StdinPrompter(enabled bool) interfaces.Prompter {
	if !enabled || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	return NewTerminalPrompter(os.Stdin, os.Stderr)
}
