package session

import (
	"github.com/sirupsen/logrus"

	"cashgame-server/pkg/chips"
	"cashgame-server/pkg/gameerr"
	"cashgame-server/pkg/settlement"
)

// Settle records the final chip counts and reconciles the session
// finalChips must hold a count for every active player. The report is always returned when the counts are
// valid. An unbalanced session is not closed unless force is true, in which case it is closed as it stands.
func (m *Manager) Settle(g *CashGame, finalChips map[string]chips.Counts, tips, rake chips.Counts, force bool) (*CashGame, *settlement.Report, error) {
	next, err := open(g)
	if err != nil {
		return nil, nil, err
	}

	if next.Hand != nil {
		return nil, nil, gameerr.New(gameerr.KindStateConflict, "cannot settle during a hand")
	}

	for id := range finalChips {
		if next.playerIndex(id) < 0 {
			return nil, nil, gameerr.New(gameerr.KindNotFound, "player %s not found", id)
		}
	}

	for i, p := range next.ActivePlayers {
		counts, ok := finalChips[p.ID]
		if !ok {
			return nil, nil, gameerr.New(gameerr.KindChipCountMismatch, "no final chip count for %s", p.Name)
		}

		next.ActivePlayers[i].FinalChips = counts.Fill(next.Denominations)
	}

	next.Tips = tips.Fill(next.Denominations)
	next.Rake = rake.Fill(next.Denominations)

	report, err := settlement.Reconcile(settlement.Input{
		Denominations: next.Denominations,
		Active:        next.ActivePlayers,
		CashedOut:     next.CashedOutPlayers,
		Tips:          next.Tips,
		Rake:          next.Rake,
	})
	if err != nil {
		return nil, nil, err
	}

	log := m.log(g).WithFields(logrus.Fields{
		"buyIn":      report.TotalBuyIn,
		"difference": report.Difference,
	})

	if err := report.Err(); err != nil {
		if !force {
			log.WithError(err).Warn("settlement rejected")
			return nil, report, err
		}

		log.WithError(err).Warn("unbalanced settlement forced")
	}

	if !report.ChipsBalanced() {
		log.WithField("discrepancies", report.ChipDiscrepancies).Warn("chip counts do not match chips in play")
	}

	now := m.clock.Now()
	next.SettledAt = &now

	log.Info("session settled")
	return next, report, nil
}
