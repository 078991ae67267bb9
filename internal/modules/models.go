package modules

import mosaicmodules "github.com/orkinosai25-org/mosaic/modules"

type (
	Phase            = mosaicmodules.Phase
	Definition       = mosaicmodules.Definition
	State            = mosaicmodules.State
	ValidationResult = mosaicmodules.ValidationResult
)

const (
	PhaseUninitialized = mosaicmodules.PhaseUninitialized
	PhaseInitialized   = mosaicmodules.PhaseInitialized
	PhaseConfigured    = mosaicmodules.PhaseConfigured
	PhaseDisposed      = mosaicmodules.PhaseDisposed
)
