package checkout

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// compensationTimeout plazo del borrado compensatorio; corre aunque ctx ya se haya cancelado.
const compensationTimeout = 10 * time.Second

// twoStep escritura en dos pasos dependientes: cabecera y luego líneas.
// Si las líneas fallan se intenta una única vez borrar la cabecera.
type twoStep struct {
	kind   string
	id     string
	header func(ctx context.Context) error
	items  func(ctx context.Context) error
	undo   func(ctx context.Context) error
}

func (s twoStep) run(ctx context.Context, log zerolog.Logger) Result {
	if err := s.header(ctx); err != nil {
		log.Error().Err(err).Str(s.kind+"_id", s.id).Msg("falló la escritura de la cabecera")
		return Result{Outcome: OutcomeHeaderFailed, Err: err}
	}

	if err := s.items(ctx); err != nil {
		res := Result{Outcome: OutcomeItemsFailed, ID: s.id, Err: err}

		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), compensationTimeout)
		defer cancel()
		if cerr := s.undo(cctx); cerr != nil {
			log.Warn().Err(cerr).Str(s.kind+"_id", s.id).Msg("compensación fallida: la cabecera quedó huérfana")
			res.CompensationErr = cerr
		} else {
			log.Warn().Err(err).Str(s.kind+"_id", s.id).Msg("líneas rechazadas, cabecera eliminada")
			res.Compensated = true
		}
		return res
	}

	return Result{Outcome: OutcomeSuccess, ID: s.id}
}
