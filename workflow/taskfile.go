package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// expandHome resolves a leading "~/" in a task file path against the
// process user's home directory (spec.md §6.4 "Path expansion").
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") && path != "~" {
		return path, nil
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return u.HomeDir, nil
	}
	return filepath.Join(u.HomeDir, strings.TrimPrefix(path, "~/")), nil
}

// knownTaskFields are the JSON keys Task models directly; everything else
// in a task file round-trips through Extra untouched.
var knownTaskFields = map[string]bool{
	"id": true, "subject": true, "activeForm": true, "status": true, "metadata": true,
}

// readTaskFile loads a task file from disk, splitting its JSON object into
// the fields the navigator understands (Task) and everything else (Extra),
// so that a caller's additional task-tracker fields survive a write-through
// untouched.
func readTaskFile(path string) (*Task, error) {
	resolved, err := expandHome(path)
	if err != nil {
		return nil, wrapErr("readTaskFile", CodeTaskFileUnreadable, "could not resolve task file path", err)
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, wrapErr("readTaskFile", CodeTaskFileUnreadable, "could not read task file", err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, wrapErr("readTaskFile", CodeTaskFileUnreadable, "task file is not valid JSON", err)
	}

	task := &Task{Extra: map[string]interface{}{}}
	for key, val := range obj {
		if !knownTaskFields[key] {
			var v interface{}
			_ = json.Unmarshal(val, &v)
			task.Extra[key] = v
			continue
		}
		switch key {
		case "id":
			_ = json.Unmarshal(val, &task.ID)
		case "subject":
			_ = json.Unmarshal(val, &task.Subject)
		case "activeForm":
			_ = json.Unmarshal(val, &task.ActiveForm)
		case "status":
			_ = json.Unmarshal(val, &task.Status)
		case "metadata":
			_ = json.Unmarshal(val, &task.Metadata)
		}
	}

	if task.ID == "" {
		task.ID = strings.TrimSuffix(filepath.Base(resolved), filepath.Ext(resolved))
	}

	return task, nil
}

// writeTaskFile composes the full new task content in memory and replaces
// the file atomically (write-to-temp, rename), per spec.md §9's crash-
// safety prescription. Extra fields are merged back in so unrelated task-
// tracker metadata a caller stores alongside workflow position survives.
func writeTaskFile(path string, task *Task) error {
	resolved, err := expandHome(path)
	if err != nil {
		return wrapErr("writeTaskFile", CodeTaskFileUnreadable, "could not resolve task file path", err)
	}

	obj := map[string]interface{}{}
	for k, v := range task.Extra {
		obj[k] = v
	}
	obj["id"] = task.ID
	obj["subject"] = task.Subject
	obj["activeForm"] = task.ActiveForm
	obj["status"] = task.Status
	obj["metadata"] = task.Metadata

	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return wrapErr("writeTaskFile", CodeTaskFileUnreadable, "could not marshal task file", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return wrapErr("writeTaskFile", CodeTaskFileUnreadable, "could not create task directory", err)
	}

	tmp, err := os.CreateTemp(dir, fmt.Sprintf(".%s.tmp-*", filepath.Base(resolved)))
	if err != nil {
		return wrapErr("writeTaskFile", CodeTaskFileUnreadable, "could not create temp file", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return wrapErr("writeTaskFile", CodeTaskFileUnreadable, "could not write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return wrapErr("writeTaskFile", CodeTaskFileUnreadable, "could not close temp file", err)
	}

	if err := os.Rename(tmpPath, resolved); err != nil {
		return wrapErr("writeTaskFile", CodeTaskFileUnreadable, "could not replace task file", err)
	}
	return nil
}
