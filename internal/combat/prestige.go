package combat

import "ec4x/internal/model"

// attributePrestige credits the attacking house for a kill and debits
// the mirrored amount from the losing house, keeping combat prestige
// zero-sum per spec.md §4.8/§8. Finishing an already-crippled target
// (handled by the caller passing the original crippling attacker when
// known) would split evenly among firing houses; this single-attacker
// path is the common case of one house finishing what it started.
func attributePrestige(res *TheaterResult, attacker, defender model.HouseID, bucket model.SquadronBucket) {
	res.PrestigeDelta = append(res.PrestigeDelta,
		model.PrestigeEvent{House: attacker, Amount: 1, Source: model.PrestigeCombatKill},
		model.PrestigeEvent{House: defender, Amount: -1, Source: model.PrestigeCombatLoss},
	)
}

// attributeSplitPrestige splits a kill's credit evenly among multiple
// firing houses (a minimum of +1 each) when a target was finished by a
// house other than the one that first crippled it, and debits the
// mirrored total from the losing house so the turn's combat ledger
// still sums to zero.
func attributeSplitPrestige(res *TheaterResult, attackers []model.HouseID, defender model.HouseID) {
	if len(attackers) == 0 {
		return
	}
	total := 0
	for _, a := range attackers {
		res.PrestigeDelta = append(res.PrestigeDelta, model.PrestigeEvent{House: a, Amount: 1, Source: model.PrestigeCombatKill})
		total++
	}
	res.PrestigeDelta = append(res.PrestigeDelta, model.PrestigeEvent{House: defender, Amount: -total, Source: model.PrestigeCombatLoss})
}

// attributeRetreatPrestige splits retreat credit evenly among the
// engagers of a task force that broke off, per §4.8.
func attributeRetreatPrestige(res *TheaterResult, engagers []model.HouseID, retreater model.HouseID) {
	for _, h := range engagers {
		res.PrestigeDelta = append(res.PrestigeDelta, model.PrestigeEvent{House: h, Amount: 1, Source: model.PrestigeCombatRetreat})
	}
}
