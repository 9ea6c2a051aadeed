package transformer

import (
	"go.uber.org/zap"

	"bean-transformer/diagnostic"
	"bean-transformer/options"
	"bean-transformer/primitive"
)

// update applies fn to a copy of the settings and publishes the copy. A
// failing fn leaves the settings unchanged and records the error.
func (t *Transformer) update(op string, fn func(s *options.Settings) error) *Transformer {
	if err := t.apply(fn); err != nil {
		t.logger.Warn("invalid transformer configuration", zap.String("op", op), zap.Error(err))

		t.mu.Lock()
		t.errs = append(t.errs, err)
		t.mu.Unlock()
	}

	return t
}

func (t *Transformer) apply(fn func(s *options.Settings) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.settings.Load().Clone()
	if err := fn(s); err != nil {
		return err
	}

	t.settings.Store(s)

	return nil
}

// WithFieldMapping reads each mapping's destination fields from its source path.
func (t *Transformer) WithFieldMapping(mappings ...options.FieldMapping) *Transformer {
	return t.update("WithFieldMapping", func(s *options.Settings) error {
		for _, m := range mappings {
			if err := s.AddMapping(m); err != nil {
				return err
			}
		}

		return nil
	})
}

// RemoveFieldMapping removes the mapping of the destination field.
func (t *Transformer) RemoveFieldMapping(destFieldName string) *Transformer {
	return t.update("RemoveFieldMapping", func(s *options.Settings) error {
		if destFieldName == "" {
			return diagnostic.NewIllegalArgument("destFieldName", "must not be empty")
		}

		delete(s.FieldsNameMapping, destFieldName)

		return nil
	})
}

// ResetFieldsMapping removes every field mapping.
func (t *Transformer) ResetFieldsMapping() *Transformer {
	return t.update("ResetFieldsMapping", func(s *options.Settings) error {
		clear(s.FieldsNameMapping)
		return nil
	})
}

// WithFieldTransformer registers field transformers. A transformer replaces
// any transformer previously registered for the same field.
func (t *Transformer) WithFieldTransformer(transformers ...options.FieldTransformer) *Transformer {
	return t.update("WithFieldTransformer", func(s *options.Settings) error {
		for _, ft := range transformers {
			if err := s.AddTransformer(ft); err != nil {
				return err
			}
		}

		return nil
	})
}

// WithFieldTransformerFunc registers fn as the transformer of the given
// destination fields. See options.FieldTransformer for the accepted shapes.
func (t *Transformer) WithFieldTransformerFunc(fn any, fields ...string) *Transformer {
	return t.update("WithFieldTransformerFunc", func(s *options.Settings) error {
		ft, err := options.NewFieldTransformer(fn, fields...)
		if err != nil {
			return err
		}

		return s.AddTransformer(ft)
	})
}

// RemoveFieldTransformer removes the transformer registered for the field key.
func (t *Transformer) RemoveFieldTransformer(destFieldName string) *Transformer {
	return t.update("RemoveFieldTransformer", func(s *options.Settings) error {
		if destFieldName == "" {
			return diagnostic.NewIllegalArgument("destFieldName", "must not be empty")
		}

		delete(s.FieldsTransformers, destFieldName)

		return nil
	})
}

// ResetFieldsTransformer removes every field transformer.
func (t *Transformer) ResetFieldsTransformer() *Transformer {
	return t.update("ResetFieldsTransformer", func(s *options.Settings) error {
		clear(s.FieldsTransformers)
		return nil
	})
}

// SkipTransformationForField leaves the fields at the given dotted
// destination paths untouched.
func (t *Transformer) SkipTransformationForField(fieldNames ...string) *Transformer {
	return t.update("SkipTransformationForField", func(s *options.Settings) error {
		for _, name := range fieldNames {
			if name == "" {
				return diagnostic.NewIllegalArgument("fieldName", "must not be empty")
			}
		}

		s.Skip(fieldNames...)

		return nil
	})
}

// ResetFieldsToSkip clears the skip set.
func (t *Transformer) ResetFieldsToSkip() *Transformer {
	return t.update("ResetFieldsToSkip", func(s *options.Settings) error {
		clear(s.FieldsToSkip)
		return nil
	})
}

// SetPrimitiveTypeConversionEnabled converts primitive values whose type
// differs from the destination field's type.
func (t *Transformer) SetPrimitiveTypeConversionEnabled(enabled bool) *Transformer {
	return t.setFlag(options.FlagPrimitiveTypeConversion, enabled)
}

// SetDefaultValueForMissingField sets fields missing from the source to their
// zero value instead of failing with a MissingFieldError.
func (t *Transformer) SetDefaultValueForMissingField(enabled bool) *Transformer {
	return t.setFlag(options.FlagDefaultValueForMissingField, enabled)
}

// SetDefaultValueForMissingPrimitiveField sets primitive fields resolved to
// nil to their zero value.
func (t *Transformer) SetDefaultValueForMissingPrimitiveField(enabled bool) *Transformer {
	return t.setFlag(options.FlagDefaultValueForMissingPrimitiveField, enabled)
}

// SetValidationEnabled validates every transformed destination.
func (t *Transformer) SetValidationEnabled(enabled bool) *Transformer {
	return t.setFlag(options.FlagValidation, enabled)
}

// SetFlatFieldNameTransformation keys field transformers by the field name
// alone, so they apply at every nesting level.
func (t *Transformer) SetFlatFieldNameTransformation(enabled bool) *Transformer {
	return t.setFlag(options.FlagFlatFieldNameTransformation, enabled)
}

// UnsetFlag restores a flag to its default.
func (t *Transformer) UnsetFlag(f options.Flag) *Transformer {
	return t.update("UnsetFlag", func(s *options.Settings) error {
		s.UnsetFlag(f)
		return nil
	})
}

// SetConversionCategories restricts the primitive conversions.
func (t *Transformer) SetConversionCategories(categories primitive.CategoryEnum) *Transformer {
	return t.update("SetConversionCategories", func(s *options.Settings) error {
		s.Categories = categories
		return nil
	})
}

// Reset restores every setting to its default and forgets recorded
// configuration errors.
func (t *Transformer) Reset() *Transformer {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := options.NewSettings()
	s.Categories = t.categories

	t.settings.Store(s)
	t.errs = nil

	return t
}

func (t *Transformer) setFlag(f options.Flag, value bool) *Transformer {
	return t.update(f.String(), func(s *options.Settings) error {
		s.SetFlag(f, value)
		return nil
	})
}
