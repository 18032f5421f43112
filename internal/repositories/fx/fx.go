package fx

import (
	"github.com/orgball2608/insta-viewer/internal/repositories/lookup"
	"go.uber.org/fx"
)

var Module = fx.Options(
	lookup.Module,
)
