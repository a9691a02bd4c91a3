package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Типы и версии событий, как они приходят в заголовках сообщений
const (
	ParsedCarEventType    = "ParsedCarEvent"
	ImportReportEventType = "ImportReportEvent"
	EventVersionV1        = "1.0.0"
)

//go:embed events
var schemasFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	if err := loadSchemas(schemasFS); err != nil {
		log.Fatalf("failed to load event schemas: %v", err)
	}
}

func loadSchemas(fsys fs.FS) error {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string
	err := fs.WalkDir(fsys, "events", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			return fmt.Errorf("compile schema %s: %w", path, err)
		}
		key := keyFromPath(path)
		if key == "" {
			return fmt.Errorf("schema path %s does not match events/<name>/v<N>.json", path)
		}
		compiledSchemas[key] = schema
	}
	return nil
}

// keyFromPath: "events/parsed-car/v1.json" -> "ParsedCarEvent/1.0.0"
func keyFromPath(path string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(path, "events/"), ".json")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)
	var name strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		name.WriteString(caser.String(p))
	}
	name.WriteString("Event")

	return fmt.Sprintf("%s/%s.0.0", name.String(), strings.TrimPrefix(parts[1], "v"))
}

// ValidateEvent проверяет тело сообщения по схеме его типа и версии
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	key := fmt.Sprintf("%s/%s", eventType, eventVersion)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
