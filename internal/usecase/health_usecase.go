package usecase

import (
	"context"
	"go-job-intake/internal/domain"
	"time"
)

// Probe reports whether one dependency is reachable
type Probe func(ctx context.Context) error

type healthUsecase struct {
	probes map[string]Probe
}

// NewHealthUsecase checks each named probe; a nil probe is reported as "disabled"
func NewHealthUsecase(probes map[string]Probe) domain.HealthUsecase {
	return &healthUsecase{probes: probes}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	result := map[string]string{"status": "ok"}
	for name, probe := range u.probes {
		if probe == nil {
			result[name] = "disabled"
			continue
		}
		probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := probe(probeCtx)
		cancel()
		if err != nil {
			result[name] = "unavailable"
			result["status"] = "degraded"
			continue
		}
		result[name] = "ok"
	}
	return result
}
