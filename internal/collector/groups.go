// internal/collector/groups.go
package collector

import (
	"fmt"
	"strings"
	"time"

	cfg "github.com/tamzrod/inverter-collector/internal/config"
	"github.com/tamzrod/inverter-collector/internal/register"
	"github.com/tamzrod/inverter-collector/internal/scheduler"
)

const (
	SummaryCadence = 30 * time.Second
	PlantCadence   = 5 * time.Second
)

func columnsOf(regs ...*register.Descriptor) []scheduler.Column {
	out := make([]scheduler.Column, len(regs))
	for i, d := range regs {
		out[i] = scheduler.Column{Label: strings.ToLower(d.Name), Register: d}
	}
	return out
}

// DefaultGroups returns the built-in tables. One plant_N group is added
// per present PV string, up to the strings the catalog knows.
func DefaultGroups(pvStrings int) []*scheduler.Group {
	groups := []*scheduler.Group{
		{
			Name:    "general",
			Cadence: SummaryCadence,
			Columns: columnsOf(
				register.InputPower,
				register.LineVoltageAB,
				register.LineVoltageBC,
				register.LineVoltageCA,
				register.PhaseCurrentA,
				register.PhaseCurrentB,
				register.PhaseCurrentC,
				register.PhaseVoltageA,
				register.PhaseVoltageB,
				register.PhaseVoltageC,
				register.ActivePower,
				register.ReactivePower,
				register.AccEnergyYield,
				register.EnergyYieldDay,
			),
		},
		{
			Name:    "monitoring",
			Cadence: SummaryCadence,
			Columns: columnsOf(register.Efficiency, register.InternalTemperature),
		},
		{
			Name:    "storage",
			Cadence: SummaryCadence,
			Columns: columnsOf(
				register.StorageChargeDischargePower,
				register.StorageChargeCapacityDay,
				register.StorageDischargeCapacityDay,
			),
		},
	}

	for i, pv := range register.PVStrings {
		if i >= pvStrings {
			break
		}
		groups = append(groups, &scheduler.Group{
			Name:    fmt.Sprintf("plant_%d", i+1),
			Cadence: PlantCadence,
			Columns: []scheduler.Column{
				{Label: "voltage", Register: pv[0]},
				{Label: "current", Register: pv[1]},
			},
		})
	}

	return groups
}

// GroupsFromConfig resolves configured groups against the catalog.
// Assumes config has already passed validation.
func GroupsFromConfig(gs []cfg.GroupConfig) ([]*scheduler.Group, error) {
	out := make([]*scheduler.Group, 0, len(gs))
	for _, gc := range gs {
		g := &scheduler.Group{
			Name:    gc.Name,
			Cadence: time.Duration(gc.CadenceSeconds) * time.Second,
		}
		for _, col := range gc.Columns {
			d, ok := register.ByName(col.Register)
			if !ok {
				return nil, fmt.Errorf("collector: group %s: unknown register %q", gc.Name, col.Register)
			}
			g.Columns = append(g.Columns, scheduler.Column{Label: col.Label, Register: d})
		}
		out = append(out, g)
	}
	return out, nil
}
