package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/recipebox/internal/client/client"
)

// Format is an output rendering.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	default:
		return true
	}
}

func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// render writes v in the requested format. Table output understands the
// recipe shapes only; anything else falls back to YAML.
func render(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to YAML: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return renderTable(w, v)
	default:
		return fmt.Errorf("unsupported format: %s", f)
	}
}

func renderTable(w io.Writer, v any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	switch t := v.(type) {
	case *client.RecipePage:
		recipeRows(tw, t.Recipes)
		if err := tw.Flush(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\npage %d of %d, %d recipe(s) total\n", t.CurrentPage, t.TotalPages, t.TotalRecipes)
		return err
	case []*client.Recipe:
		recipeRows(tw, t)
	case *client.Recipe:
		recipeFields(tw, t)
	case *client.UpdateResult:
		recipeFields(tw, t.Recipe)
		changed := "-"
		if len(t.Changed) > 0 {
			changed = strings.Join(t.Changed, ", ")
		}
		fmt.Fprintf(tw, "CHANGED\t%s\n", changed)
	default:
		return render(w, FormatYAML, v)
	}
	return tw.Flush()
}

func recipeRows(tw *tabwriter.Writer, recipes []*client.Recipe) {
	if len(recipes) == 0 {
		fmt.Fprintln(tw, "<empty>")
		return
	}
	fmt.Fprintln(tw, "ID\tNAME\tINGREDIENTS\tUPDATED")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.ID, r.Name, len(r.Ingredients), stamp(r.UpdatedAt))
	}
}

func recipeFields(tw *tabwriter.Writer, r *client.Recipe) {
	if r == nil {
		fmt.Fprintln(tw, "<empty>")
		return
	}
	image := r.Image
	if image == "" {
		image = "-"
	}
	fmt.Fprintf(tw, "ID\t%s\n", r.ID)
	fmt.Fprintf(tw, "NAME\t%s\n", r.Name)
	fmt.Fprintf(tw, "DESCRIPTION\t%s\n", r.Description)
	fmt.Fprintf(tw, "INGREDIENTS\t%s\n", strings.Join(r.Ingredients, ", "))
	for i, line := range strings.Split(r.Instructions, "\n") {
		label := ""
		if i == 0 {
			label = "INSTRUCTIONS"
		}
		fmt.Fprintf(tw, "%s\t%s\n", label, line)
	}
	fmt.Fprintf(tw, "IMAGE\t%s\n", image)
	fmt.Fprintf(tw, "CREATED\t%s\n", stamp(r.CreatedAt))
	fmt.Fprintf(tw, "UPDATED\t%s\n", stamp(r.UpdatedAt))
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(time.DateTime)
}
