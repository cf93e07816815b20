package model

import (
	"fmt"
	"strings"
)

// FieldName identifies a form field. The string values match the payload keys
// handed to the task queue.
type FieldName string

const (
	FieldModel      FieldName = "model"
	FieldPrompt     FieldName = "prompt"
	FieldFirstFile  FieldName = "firstFile"
	FieldLastFile   FieldName = "lastFile"
	FieldFirstFrame FieldName = "firstFrame"
	FieldLastFrame  FieldName = "lastFrame"
	FieldRatio      FieldName = "ratio"
	FieldType       FieldName = "type"
	FieldTime       FieldName = "time"
	FieldLoop       FieldName = "loop"
	FieldCamera     FieldName = "camera"
	FieldAudio      FieldName = "audio"
	FieldStyle      FieldName = "style"
)

// AllFields lists every field in the order the catalogue declares them.
var AllFields = []FieldName{
	FieldModel,
	FieldPrompt,
	FieldFirstFile,
	FieldLastFile,
	FieldFirstFrame,
	FieldLastFrame,
	FieldRatio,
	FieldType,
	FieldTime,
	FieldLoop,
	FieldAudio,
	FieldCamera,
	FieldStyle,
}

// ParseFieldName resolves a raw key into a known field name.
func ParseFieldName(raw string) (FieldName, bool) {
	name := FieldName(strings.TrimSpace(raw))
	for _, candidate := range AllFields {
		if candidate == name {
			return name, true
		}
	}
	return "", false
}

// Model is the selected generation backend. Unknown values are valid and fall
// back to the default visibility rule.
type Model string

const (
	ModelLuma    Model = "luma"
	ModelKling   Model = "kling"
	ModelRunway  Model = "runway"
	ModelCog     Model = "cog"
	ModelMinimax Model = "minimax"
	ModelPika    Model = "pika"
	ModelGenmo   Model = "genmo"
)

// KnownModels lists the models with dedicated visibility rules.
var KnownModels = []Model{
	ModelLuma,
	ModelKling,
	ModelRunway,
	ModelCog,
	ModelMinimax,
	ModelPika,
	ModelGenmo,
}

// FileHandle references an uploaded or derived binary blob.
type FileHandle struct {
	Name        string `json:"name" yaml:"name"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Size        int64  `json:"size,omitempty" yaml:"size,omitempty"`
	// Ref points at the blob in whatever store the upload pipeline uses.
	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// FormValues is the full record held by the form state. Optional string fields
// use the empty string for "unset".
type FormValues struct {
	Model      Model       `json:"model" yaml:"model"`
	Prompt     string      `json:"prompt" yaml:"prompt"`
	FirstFile  *FileHandle `json:"firstFile" yaml:"firstFile"`
	LastFile   *FileHandle `json:"lastFile" yaml:"lastFile"`
	FirstFrame *FileHandle `json:"firstFrame" yaml:"firstFrame"`
	LastFrame  *FileHandle `json:"lastFrame" yaml:"lastFrame"`
	Ratio      string      `json:"ratio,omitempty" yaml:"ratio,omitempty"`
	Type       string      `json:"type,omitempty" yaml:"type,omitempty"`
	Time       string      `json:"time,omitempty" yaml:"time,omitempty"`
	Loop       string      `json:"loop,omitempty" yaml:"loop,omitempty"`
	Camera     string      `json:"camera,omitempty" yaml:"camera,omitempty"`
	Audio      string      `json:"audio,omitempty" yaml:"audio,omitempty"`
	Style      string      `json:"style,omitempty" yaml:"style,omitempty"`
}

// HasFiles reports whether either source file is attached.
func (v FormValues) HasFiles() bool {
	return v.FirstFile != nil || v.LastFile != nil
}

// Get returns the value stored under name. File fields return *FileHandle
// (possibly nil), everything else a string.
func (v FormValues) Get(name FieldName) (any, bool) {
	switch name {
	case FieldModel:
		return string(v.Model), true
	case FieldPrompt:
		return v.Prompt, true
	case FieldFirstFile:
		return v.FirstFile, true
	case FieldLastFile:
		return v.LastFile, true
	case FieldFirstFrame:
		return v.FirstFrame, true
	case FieldLastFrame:
		return v.LastFrame, true
	case FieldRatio:
		return v.Ratio, true
	case FieldType:
		return v.Type, true
	case FieldTime:
		return v.Time, true
	case FieldLoop:
		return v.Loop, true
	case FieldCamera:
		return v.Camera, true
	case FieldAudio:
		return v.Audio, true
	case FieldStyle:
		return v.Style, true
	default:
		return nil, false
	}
}

// Set writes value under name. File fields accept *FileHandle, FileHandle or
// nil; string fields accept strings, nil (clears) or anything fmt can print.
func (v *FormValues) Set(name FieldName, value any) error {
	if v == nil {
		return fmt.Errorf("model: form values is nil")
	}

	if isFileField(name) {
		handle, err := toFileHandle(value)
		if err != nil {
			return fmt.Errorf("model: set %s: %w", name, err)
		}
		switch name {
		case FieldFirstFile:
			v.FirstFile = handle
		case FieldLastFile:
			v.LastFile = handle
		case FieldFirstFrame:
			v.FirstFrame = handle
		case FieldLastFrame:
			v.LastFrame = handle
		}
		return nil
	}

	text := toString(value)
	switch name {
	case FieldModel:
		v.Model = Model(text)
	case FieldPrompt:
		v.Prompt = text
	case FieldRatio:
		v.Ratio = text
	case FieldType:
		v.Type = text
	case FieldTime:
		v.Time = text
	case FieldLoop:
		v.Loop = text
	case FieldCamera:
		v.Camera = text
	case FieldAudio:
		v.Audio = text
	case FieldStyle:
		v.Style = text
	default:
		return fmt.Errorf("model: unknown field %q", name)
	}
	return nil
}

// Clone returns a copy whose file handles do not alias the receiver's.
func (v FormValues) Clone() FormValues {
	out := v
	out.FirstFile = cloneHandle(v.FirstFile)
	out.LastFile = cloneHandle(v.LastFile)
	out.FirstFrame = cloneHandle(v.FirstFrame)
	out.LastFrame = cloneHandle(v.LastFrame)
	return out
}

// IsFileField reports whether name holds a FileHandle.
func IsFileField(name FieldName) bool {
	return isFileField(name)
}

func isFileField(name FieldName) bool {
	switch name {
	case FieldFirstFile, FieldLastFile, FieldFirstFrame, FieldLastFrame:
		return true
	default:
		return false
	}
}

func toFileHandle(value any) (*FileHandle, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case *FileHandle:
		return cloneHandle(typed), nil
	case FileHandle:
		return &typed, nil
	default:
		return nil, fmt.Errorf("expected file handle, got %T", value)
	}
}

func toString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case Model:
		return string(typed)
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(typed)
	}
}

func cloneHandle(handle *FileHandle) *FileHandle {
	if handle == nil {
		return nil
	}
	out := *handle
	return &out
}
