// internal/collector/identity.go
package collector

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/tamzrod/inverter-collector/internal/register"
)

// ValueReader reads and decodes a batch. *poller.Poller implements it.
// errs holds one conversion error (or nil) per register.
type ValueReader interface {
	ReadValues(regs []*register.Descriptor) (vals []register.Value, errs []error, err error)
}

// Identity is the nameplate block of the inverter.
type Identity struct {
	Model    string
	SN       string
	PN       string
	ModelID  uint16
	Strings  uint16
	Trackers uint16

	RatedPower          float64
	MaxActivePower      float64
	MaxApparentPower    float64
	MaxReactiveToGrid   float64
	MaxApparentFromGrid float64
}

// DeviceState is the operating state block.
type DeviceState struct {
	Efficiency  float64
	Temperature float64
	Status      uint16
	Startup     time.Time
	Shutdown    time.Time // zero while running
}

// Storage is the battery block.
type Storage struct {
	RunningStatus        uint16
	ChargeDischargePower float64
	ChargeCapacityDay    float64
	DischargeCapacityDay float64
}

var (
	identityRegisters = []*register.Descriptor{
		register.Model,
		register.SN,
		register.PN,
		register.ModelID,
		register.NumberOfPVStrings,
		register.NumberOfMPPTrackers,
		register.RatedPower,
		register.MaximumActivePower,
		register.MaximumApparentPower,
		register.MaximumReactivePowerToGrid,
		register.MaximumApparentPowerFromGrid,
	}
	stateRegisters = []*register.Descriptor{
		register.Efficiency,
		register.InternalTemperature,
		register.DeviceStatus,
		register.StartupTime,
		register.ShutdownTime,
	}
	storageRegisters = []*register.Descriptor{
		register.StorageRunningStatus,
		register.StorageChargeDischargePower,
		register.StorageChargeCapacityDay,
		register.StorageDischargeCapacityDay,
	}
)

// block is one decoded batch. Fields that fail to convert are logged
// and read as zero; the rest of the block stays usable.
type block struct {
	name string
	regs []*register.Descriptor
	vals []register.Value
	errs []error
}

func readBlock(r ValueReader, name string, regs []*register.Descriptor) (block, error) {
	vals, errs, err := r.ReadValues(regs)
	if err != nil {
		return block{}, fmt.Errorf("collector: %s: %w", name, err)
	}
	return block{name: name, regs: regs, vals: vals, errs: errs}, nil
}

func (b block) invalid(i int, err error) {
	zap.S().Warnf("%s: %s invalid: %v", b.name, b.regs[i].Name, err)
}

func (b block) ok(i int) bool {
	if b.errs[i] != nil {
		b.invalid(i, b.errs[i])
		return false
	}
	return true
}

func (b block) text(i int) string {
	if !b.ok(i) {
		return ""
	}
	return b.vals[i].Text()
}

func (b block) u16(i int) uint16 {
	if !b.ok(i) {
		return 0
	}
	n, err := b.vals[i].Uint16()
	if err != nil {
		b.invalid(i, err)
		return 0
	}
	return n
}

func (b block) u32(i int) (uint32, bool) {
	if !b.ok(i) {
		return 0, false
	}
	n, err := b.vals[i].Uint32()
	if err != nil {
		b.invalid(i, err)
		return 0, false
	}
	return n, true
}

func (b block) scaled(i int) float64 {
	if !b.ok(i) {
		return 0
	}
	f, err := b.vals[i].Scaled(b.regs[i].Gain)
	if err != nil {
		b.invalid(i, err)
		return 0
	}
	return f
}

// ReadIdentity reads the nameplate block in one batch.
// Only NUMBER_OF_PV_STRINGS must decode; the default groups depend on it.
func ReadIdentity(r ValueReader) (Identity, error) {
	b, err := readBlock(r, "identity", identityRegisters)
	if err != nil {
		return Identity{}, err
	}

	if b.errs[4] != nil {
		return Identity{}, fmt.Errorf("collector: identity: %w", b.errs[4])
	}
	pvStrings, err := b.vals[4].Uint16()
	if err != nil {
		return Identity{}, fmt.Errorf("collector: identity: %s: %w", register.NumberOfPVStrings.Name, err)
	}

	return Identity{
		Model:    b.text(0),
		SN:       b.text(1),
		PN:       b.text(2),
		ModelID:  b.u16(3),
		Strings:  pvStrings,
		Trackers: b.u16(5),

		RatedPower:          b.scaled(6),
		MaxActivePower:      b.scaled(7),
		MaxApparentPower:    b.scaled(8),
		MaxReactiveToGrid:   b.scaled(9),
		MaxApparentFromGrid: b.scaled(10),
	}, nil
}

// ReadDeviceState reads the operating state block in one batch.
func ReadDeviceState(r ValueReader) (DeviceState, error) {
	b, err := readBlock(r, "device state", stateRegisters)
	if err != nil {
		return DeviceState{}, err
	}

	st := DeviceState{
		Efficiency:  b.scaled(0),
		Temperature: b.scaled(1),
		Status:      b.u16(2),
	}
	if startup, ok := b.u32(3); ok {
		st.Startup = time.Unix(int64(startup), 0)
	}
	// all ones means not shut down
	if shutdown, ok := b.u32(4); ok && shutdown != math.MaxUint32 {
		st.Shutdown = time.Unix(int64(shutdown), 0)
	}
	return st, nil
}

// ReadStorage reads the battery block in one batch.
func ReadStorage(r ValueReader) (Storage, error) {
	b, err := readBlock(r, "storage", storageRegisters)
	if err != nil {
		return Storage{}, err
	}

	return Storage{
		RunningStatus:        b.u16(0),
		ChargeDischargePower: b.scaled(1),
		ChargeCapacityDay:    b.scaled(2),
		DischargeCapacityDay: b.scaled(3),
	}, nil
}

// Describe reads identity, state and storage and logs them.
// Only the identity read is required; the other blocks are best effort.
func Describe(r ValueReader) (Identity, error) {
	id, err := ReadIdentity(r)
	if err != nil {
		return Identity{}, err
	}

	log := zap.S()
	log.Infof("Inverter %s (ID: %d) SN/PN: %s/%s", id.Model, id.ModelID, id.SN, id.PN)
	log.Infof("Strings: %d, Trackers: %d", id.Strings, id.Trackers)
	log.Infof("Rated power: %g %s", id.RatedPower, register.RatedPower.Unit)
	log.Infof("Maximum active power: %g %s, apparent power: %g %s",
		id.MaxActivePower, register.MaximumActivePower.Unit,
		id.MaxApparentPower, register.MaximumApparentPower.Unit)
	log.Infof("Maximum reactive power -> grid: %g %s, apparent power <- grid: %g %s",
		id.MaxReactiveToGrid, register.MaximumReactivePowerToGrid.Unit,
		id.MaxApparentFromGrid, register.MaximumApparentPowerFromGrid.Unit)

	if st, err := ReadDeviceState(r); err != nil {
		log.Warnf("Reading device state failed: %v", err)
	} else {
		name, ok := register.DeviceStatusString(st.Status)
		if !ok {
			name = "invalid"
		}
		log.Infof("Status: %s, efficiency: %g %%, temperature: %g %s",
			name, st.Efficiency, st.Temperature, register.InternalTemperature.Unit)
		log.Infof("Startup: %s", st.Startup.Format(time.RFC3339))
		if !st.Shutdown.IsZero() {
			log.Infof("Shutdown: %s", st.Shutdown.Format(time.RFC3339))
		}
	}

	if s, err := ReadStorage(r); err != nil {
		log.Warnf("Reading storage failed: %v", err)
	} else {
		name, ok := register.StorageStatusString(s.RunningStatus)
		if !ok {
			name = "invalid"
		}
		log.Infof("Storage: %s, charge/discharge: %g %s, charged today: %g %s, discharged today: %g %s",
			name,
			s.ChargeDischargePower, register.StorageChargeDischargePower.Unit,
			s.ChargeCapacityDay, register.StorageChargeCapacityDay.Unit,
			s.DischargeCapacityDay, register.StorageDischargeCapacityDay.Unit)
	}

	return id, nil
}
