package token

// SensitivityProfile controls which tokenizer passes run and which
// identifier/literal classes get normalized away before comparison.
// A zero-value SensitivityProfile is the "custom" profile with every flag
// false, the structural ones (comments, preprocessor, whitespace) included.
// Unlike Custom's base in original_source/config.py (SensitivityConfig.custom
// starts from smart() and only overrides what's given), callers here build
// the flags they want explicitly.
type SensitivityProfile struct {
	IgnoreVariableNames   bool
	IgnoreFunctionNames   bool
	IgnoreTypeNames       bool
	IgnoreStringLiterals  bool
	IgnoreNumericLiterals bool
	RemoveComments        bool
	RemovePreprocessor    bool
	NormalizeWhitespace   bool
}

// Smart ignores variable and function names but keeps everything else,
// the most aggressive of the three predefined profiles.
func Smart() SensitivityProfile {
	return SensitivityProfile{
		IgnoreVariableNames: true,
		IgnoreFunctionNames: true,
		RemoveComments:      true,
		RemovePreprocessor:  true,
		NormalizeWhitespace: true,
	}
}

// Balanced ignores only variable names.
func Balanced() SensitivityProfile {
	return SensitivityProfile{
		IgnoreVariableNames: true,
		RemoveComments:      true,
		RemovePreprocessor:  true,
		NormalizeWhitespace: true,
	}
}

// Strict preserves all identifiers; only comments, preprocessor directives,
// and whitespace are normalized away.
func Strict() SensitivityProfile {
	return SensitivityProfile{
		RemoveComments:      true,
		RemovePreprocessor:  true,
		NormalizeWhitespace: true,
	}
}
