package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"attendform/internal/domain/form"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// data URI длиннее этого выводится сокращенно
const maxValueLen = 64

// Printer выводит результаты команд: JSON для скриптов, таблицу "поле: значение"
// для человека. Цвет включается только на терминале.
type Printer struct {
	w     io.Writer
	json  bool
	key   *color.Color
	title *color.Color
	ok    *color.Color
}

func NewPrinter(w io.Writer, jsonOutput bool) *Printer {
	p := &Printer{
		w:     w,
		json:  jsonOutput,
		key:   color.New(color.FgCyan),
		title: color.New(color.Bold),
		ok:    color.New(color.FgGreen),
	}

	colored := false
	if f, isFile := w.(*os.File); isFile {
		colored = term.IsTerminal(int(f.Fd()))
	}
	for _, c := range []*color.Color{p.key, p.title, p.ok} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Submission печатает результат отправки формы.
func (p *Printer) Submission(sub *form.Submission) error {
	if p.json {
		return p.encode(struct {
			Key    string `json:"key"`
			Route  string `json:"route"`
			Record any    `json:"record"`
		}{sub.Key, sub.Route, sub.Record})
	}

	p.ok.Fprintf(p.w, "Форма сохранена: %s\n", sub.Key)
	fmt.Fprintf(p.w, "Переход: %s\n\n", sub.Route)
	return p.fields(sub.Record)
}

// Record печатает сохраненную запись формы.
func (p *Printer) Record(v form.Variant, id string, rec any) error {
	if p.json {
		return p.encode(struct {
			ID      string       `json:"id"`
			Variant form.Variant `json:"variant"`
			Record  any          `json:"record"`
		}{id, v, rec})
	}

	p.title.Fprintf(p.w, "=== %s ===\n", v.Key(id))
	return p.fields(rec)
}

func (p *Printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fields выводит поля записи в порядке имен так, как они хранятся.
func (p *Printer) fields(rec any) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ошибка сериализации записи: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("ошибка сериализации записи: %w", err)
	}

	keys := make([]string, 0, len(m))
	width := 0
	for k := range m {
		keys = append(keys, k)
		width = max(width, len(k))
	}
	sort.Strings(keys)

	for _, k := range keys {
		p.key.Fprintf(p.w, "%-*s", width+1, k+":")
		fmt.Fprintf(p.w, " %s\n", display(m[k]))
	}
	return nil
}

func display(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if strings.HasPrefix(val, "data:") && len(val) > maxValueLen {
			head, _, _ := strings.Cut(val, ",")
			return fmt.Sprintf("%s,... (%d bytes)", head, len(val))
		}
		if val == "" {
			return "-"
		}
		return val
	case float64:
		return fmt.Sprintf("%g", val)
	}
	return fmt.Sprint(v)
}
