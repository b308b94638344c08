package menu

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/noah-isme/toko-pos/internal/common"
	"github.com/noah-isme/toko-pos/internal/pricing"
)

// Prompt reads trimmed answers from an input stream.
type Prompt struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewPrompt wraps in and out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{scanner: bufio.NewScanner(in), out: out}
}

// Text prints label and returns the next line, or io.EOF once input is exhausted.
func (p *Prompt) Text(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.out, label)
	}
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

// Int reads a whole number. name labels the value in validation errors.
func (p *Prompt) Int(label, name string) (int64, error) {
	raw, err := p.Text(label)
	if err != nil {
		return 0, err
	}
	return common.ParseInt(name, raw)
}

// YesNo reads a yes/no answer; only "yes", in any case, counts as yes.
func (p *Prompt) YesNo(label string) (bool, error) {
	raw, err := p.Text(label)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(raw, "yes"), nil
}

// Money reads a dollar amount such as "12.50" or "$1,000".
func (p *Prompt) Money(label string) (pricing.Money, error) {
	raw, err := p.Text(label)
	if err != nil {
		return 0, err
	}
	m, err := pricing.ParseMoney(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", err, common.ErrInvalidInput)
	}
	return m, nil
}
