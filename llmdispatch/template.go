package llmdispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// prettyJSONKeys are the info_map entries re-serialized as pretty JSON with
// real (unescaped) newlines before substitution, so the LLM sees readable
// multi-line JSON rather than one long escaped string (spec §4.5
// "Template-driven calls" step 2).
var prettyJSONKeys = map[string]bool{
	"avatar_infos":         true,
	"world_info":           true,
	"general_action_infos": true,
	"expanded_info":        true,
}

// DispatchTemplate implements call_llm_with_template (spec §4.5): load the
// template, pretty-print known info_map keys, substitute `{{key}}`
// placeholders, and delegate to DispatchJSON.
func (d *Dispatcher) DispatchTemplate(ctx context.Context, task, templatePath string, infoMap map[string]any, model string, mode CallMode, maxRetriesOverride *int) (*Future, error) {
	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, fmt.Errorf("load llm template %s: %w", templatePath, err)
	}

	prompt, err := renderTemplate(string(tmpl), infoMap)
	if err != nil {
		return nil, err
	}

	dispatcher := d
	if maxRetriesOverride != nil {
		override := *d
		override.maxParseRetries = *maxRetriesOverride
		dispatcher = &override
	}
	return dispatcher.DispatchJSON(ctx, task, model, prompt, mode), nil
}

// DispatchTaskName implements call_llm_with_task_name: resolve the call
// mode for task from the dispatcher's table, then dispatch the template.
func (d *Dispatcher) DispatchTaskName(ctx context.Context, task, templatePath string, infoMap map[string]any, model string, maxRetriesOverride *int) (*Future, error) {
	return d.DispatchTemplate(ctx, task, templatePath, infoMap, model, ModeDefault, maxRetriesOverride)
}

func renderTemplate(tmpl string, infoMap map[string]any) (string, error) {
	out := tmpl
	for key, value := range infoMap {
		placeholder := "{{" + key + "}}"
		if !strings.Contains(out, placeholder) {
			continue
		}

		var rendered string
		if prettyJSONKeys[key] {
			pretty, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return "", fmt.Errorf("render template key %s: %w", key, err)
			}
			rendered = string(pretty)
		} else {
			rendered = fmt.Sprintf("%v", value)
		}
		out = strings.ReplaceAll(out, placeholder, rendered)
	}
	return out, nil
}
