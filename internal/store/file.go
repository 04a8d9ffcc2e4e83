package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"warden/pkg/channels"
)

// File persists the document to one file, JSON by default or YAML when the
// path ends in .yaml/.yml. Writes go through a temp file in the same
// directory followed by a rename, so a concurrent reader never sees a
// partial document.
type File struct {
	path string
	yaml bool
}

func NewFile(path string) *File {
	ext := strings.ToLower(filepath.Ext(path))
	return &File{path: path, yaml: ext == ".yaml" || ext == ".yml"}
}

func (f *File) Read(_ context.Context) (map[string]any, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, &channels.Error{Code: channels.EConfigRead, Msg: "read " + f.path, Err: err}
	}
	doc := map[string]any{}
	if len(data) == 0 {
		return doc, nil
	}
	if f.yaml {
		err = yaml.Unmarshal(data, &doc)
	} else {
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, &channels.Error{Code: channels.EConfigRead, Msg: "parse " + f.path, Err: err}
	}
	return doc, nil
}

func (f *File) Write(_ context.Context, doc map[string]any) error {
	var data []byte
	var err error
	if f.yaml {
		data, err = yaml.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return &channels.Error{Code: channels.EConfigWrite, Msg: "encode " + f.path, Err: err}
	}
	data = append(data, '\n')
	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*")
	if err != nil {
		return &channels.Error{Code: channels.EConfigWrite, Msg: "temp file for " + f.path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &channels.Error{Code: channels.EConfigWrite, Msg: "write " + f.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &channels.Error{Code: channels.EConfigWrite, Msg: "close " + f.path, Err: err}
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return &channels.Error{Code: channels.EConfigWrite, Msg: "replace " + f.path, Err: err}
	}
	return nil
}
