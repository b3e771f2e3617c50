package model

import internalmodel "github.com/goliatone/go-projection-editor/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeArray   = internalmodel.FieldTypeArray
	FieldTypeObject  = internalmodel.FieldTypeObject
)

const (
	MetaHandlers      = internalmodel.MetaHandlers
	MetaRepeaterLabel = internalmodel.MetaRepeaterLabel
	MetaRemovable     = internalmodel.MetaRemovable
	HandlersShared    = internalmodel.HandlersShared
	HandlersDynamic   = internalmodel.HandlersDynamic
)

type Field = internalmodel.Field
type FormModel = internalmodel.FormModel
