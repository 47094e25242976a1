package relatives

import (
	"context"
	"log/slog"

	"github.com/familytree/ledger/domain/scheduler"
	"github.com/familytree/ledger/internal/config"
)

// AuditTaskName is the scheduler task name of the reverse-edge audit.
const AuditTaskName = "relatives_reverse_edge_audit"

// RegisterAuditJob schedules AuditReverseEdges when RELATIVES_AUDIT_SCHEDULE is set
func RegisterAuditJob(s *scheduler.Scheduler, svc *Service, cfg *config.Config, log *slog.Logger) error {
	if !cfg.Relatives.AuditEnabled() {
		log.Info("relatives audit job disabled")
		return nil
	}

	repair := cfg.Relatives.AuditRepair
	return s.AddCronTask(AuditTaskName, cfg.Relatives.AuditSchedule, func(ctx context.Context) error {
		_, err := svc.AuditReverseEdges(ctx, repair)
		return err
	})
}
