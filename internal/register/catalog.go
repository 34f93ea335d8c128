// internal/register/catalog.go
package register

import "fmt"

// Huawei SUN2000 register map.
// Gain follows the collector convention (exponent, multiplied).

// ---- identity ----

var (
	Model                        = &Descriptor{Address: 30000, Quantity: 15, Gain: 0, Access: ReadOnly, Type: String, Name: "MODEL"}
	SN                           = &Descriptor{Address: 30015, Quantity: 10, Gain: 0, Access: ReadOnly, Type: String, Name: "SN"}
	PN                           = &Descriptor{Address: 30025, Quantity: 10, Gain: 0, Access: ReadOnly, Type: String, Name: "PN"}
	ModelID                      = &Descriptor{Address: 30070, Quantity: 1, Gain: 0, Access: ReadOnly, Type: U16, Name: "MODEL_ID"}
	NumberOfPVStrings            = &Descriptor{Address: 30071, Quantity: 1, Gain: 0, Access: ReadOnly, Type: U16, Name: "NUMBER_OF_PV_STRINGS"}
	NumberOfMPPTrackers          = &Descriptor{Address: 30072, Quantity: 1, Gain: 0, Access: ReadOnly, Type: U16, Name: "NUMBER_OF_MPP_TRACKERS"}
	RatedPower                   = &Descriptor{Address: 30073, Quantity: 2, Gain: 3, Unit: "kW", Access: ReadOnly, Type: U32, Name: "RATED_POWER"}
	MaximumActivePower           = &Descriptor{Address: 30075, Quantity: 2, Gain: 3, Unit: "kW", Access: ReadOnly, Type: U32, Name: "MAXIMUM_ACTIVE_POWER"}
	MaximumApparentPower         = &Descriptor{Address: 30077, Quantity: 2, Gain: 3, Unit: "kVA", Access: ReadOnly, Type: U32, Name: "MAXIMUM_APPARENT_POWER"}
	MaximumReactivePowerToGrid   = &Descriptor{Address: 30079, Quantity: 2, Gain: 3, Unit: "kVar", Access: ReadOnly, Type: I32, Name: "MAXIMUM_REACTIVE_POWER_TO_GRID"}
	MaximumApparentPowerFromGrid = &Descriptor{Address: 30081, Quantity: 2, Gain: 3, Unit: "kVar", Access: ReadOnly, Type: I32, Name: "MAXIMUM_APPARENT_POWER_FROM_GRID"}
)

// ---- state / alarm bitfields ----

var (
	State1 = &Descriptor{Address: 32000, Quantity: 1, Access: ReadOnly, Type: Bitfield, Name: "STATE_1"}
	State2 = &Descriptor{Address: 32002, Quantity: 1, Access: ReadOnly, Type: Bitfield, Name: "STATE_2"}
	State3 = &Descriptor{Address: 32003, Quantity: 2, Access: ReadOnly, Type: Bitfield, Name: "STATE_3"}
	Alarm1 = &Descriptor{Address: 32008, Quantity: 1, Access: ReadOnly, Type: Bitfield, Name: "ALARM_1"}
	Alarm2 = &Descriptor{Address: 32009, Quantity: 1, Access: ReadOnly, Type: Bitfield, Name: "ALARM_2"}
	Alarm3 = &Descriptor{Address: 32010, Quantity: 1, Access: ReadOnly, Type: Bitfield, Name: "ALARM_3"}
)

// ---- PV strings ----

var (
	PV1Voltage = &Descriptor{Address: 32016, Quantity: 1, Gain: 1, Unit: "V", Access: ReadOnly, Type: I16, Name: "PV1_VOLTAGE"}
	PV1Current = &Descriptor{Address: 32017, Quantity: 1, Gain: 2, Unit: "A", Access: ReadOnly, Type: I16, Name: "PV1_CURRENT"}
	PV2Voltage = &Descriptor{Address: 32018, Quantity: 1, Gain: 1, Unit: "V", Access: ReadOnly, Type: I16, Name: "PV2_VOLTAGE"}
	PV2Current = &Descriptor{Address: 32019, Quantity: 1, Gain: 2, Unit: "A", Access: ReadOnly, Type: I16, Name: "PV2_CURRENT"}
	PV3Voltage = &Descriptor{Address: 32020, Quantity: 1, Gain: 1, Unit: "V", Access: ReadOnly, Type: I16, Name: "PV3_VOLTAGE"}
	PV3Current = &Descriptor{Address: 32021, Quantity: 1, Gain: 2, Unit: "A", Access: ReadOnly, Type: I16, Name: "PV3_CURRENT"}
	PV4Voltage = &Descriptor{Address: 32022, Quantity: 1, Gain: 1, Unit: "V", Access: ReadOnly, Type: I16, Name: "PV4_VOLTAGE"}
	PV4Current = &Descriptor{Address: 32023, Quantity: 1, Gain: 2, Unit: "A", Access: ReadOnly, Type: I16, Name: "PV4_CURRENT"}
)

// ---- power / grid ----

var (
	InputPower           = &Descriptor{Address: 32064, Quantity: 2, Gain: 3, Unit: "kW", Access: ReadOnly, Type: I32, Name: "INPUT_POWER"}
	LineVoltageAB        = &Descriptor{Address: 32066, Quantity: 1, Gain: 1, Unit: "V", Access: ReadOnly, Type: U16, Name: "LINE_VOLTAGE_A_B"}
	LineVoltageBC        = &Descriptor{Address: 32067, Quantity: 1, Gain: 1, Unit: "V", Access: ReadOnly, Type: U16, Name: "LINE_VOLTAGE_B_C"}
	LineVoltageCA        = &Descriptor{Address: 32068, Quantity: 1, Gain: 1, Unit: "V", Access: ReadOnly, Type: U16, Name: "LINE_VOLTAGE_C_A"}
	PhaseVoltageA        = &Descriptor{Address: 32069, Quantity: 1, Gain: 1, Unit: "V", Access: ReadOnly, Type: U16, Name: "PHASE_VOLTAGE_A"}
	PhaseVoltageB        = &Descriptor{Address: 32070, Quantity: 1, Gain: 1, Unit: "V", Access: ReadOnly, Type: U16, Name: "PHASE_VOLTAGE_B"}
	PhaseVoltageC        = &Descriptor{Address: 32071, Quantity: 1, Gain: 1, Unit: "V", Access: ReadOnly, Type: U16, Name: "PHASE_VOLTAGE_C"}
	PhaseCurrentA        = &Descriptor{Address: 32072, Quantity: 2, Gain: 3, Unit: "A", Access: ReadOnly, Type: I32, Name: "PHASE_CURRENT_A"}
	PhaseCurrentB        = &Descriptor{Address: 32074, Quantity: 2, Gain: 3, Unit: "A", Access: ReadOnly, Type: I32, Name: "PHASE_CURRENT_B"}
	PhaseCurrentC        = &Descriptor{Address: 32076, Quantity: 2, Gain: 3, Unit: "A", Access: ReadOnly, Type: I32, Name: "PHASE_CURRENT_C"}
	PeakActivePowerDay   = &Descriptor{Address: 32078, Quantity: 2, Gain: 3, Unit: "kW", Access: ReadOnly, Type: I32, Name: "PEAK_ACTIVE_POWER_DAY"}
	ActivePower          = &Descriptor{Address: 32080, Quantity: 2, Gain: 3, Unit: "kW", Access: ReadOnly, Type: I32, Name: "ACTIVE_POWER"}
	ReactivePower        = &Descriptor{Address: 32082, Quantity: 2, Gain: 3, Unit: "kVar", Access: ReadOnly, Type: I32, Name: "REACTIVE_POWER"}
	PowerFactor          = &Descriptor{Address: 32084, Quantity: 1, Gain: 3, Access: ReadOnly, Type: I16, Name: "POWER_FACTOR"}
	GridFrequency        = &Descriptor{Address: 32085, Quantity: 1, Gain: 2, Unit: "Hz", Access: ReadOnly, Type: U16, Name: "GRID_FREQUENCY"}
	Efficiency           = &Descriptor{Address: 32086, Quantity: 1, Gain: 2, Unit: "%", Access: ReadOnly, Type: U16, Name: "EFFICIENCY"}
	InternalTemperature  = &Descriptor{Address: 32087, Quantity: 1, Gain: 1, Unit: "°C", Access: ReadOnly, Type: I16, Name: "INTERNAL_TEMPERATURE"}
	InsulationResistance = &Descriptor{Address: 32088, Quantity: 1, Gain: 3, Unit: "MΩ", Access: ReadOnly, Type: U16, Name: "INSULATION_RESISTANCE"}
	DeviceStatus         = &Descriptor{Address: 32089, Quantity: 1, Access: ReadOnly, Type: U16, Name: "DEVICE_STATUS"}
	FaultCode            = &Descriptor{Address: 32090, Quantity: 1, Access: ReadOnly, Type: U16, Name: "FAULT_CODE"}
	StartupTime          = &Descriptor{Address: 32091, Quantity: 2, Access: ReadOnly, Type: U32, Name: "STARTUP_TIME"}
	ShutdownTime         = &Descriptor{Address: 32093, Quantity: 2, Access: ReadOnly, Type: U32, Name: "SHUTDOWN_TIME"}
	AccEnergyYield       = &Descriptor{Address: 32106, Quantity: 2, Gain: 2, Unit: "kWh", Access: ReadOnly, Type: U32, Name: "ACC_ENERGY_YIELD"}
	EnergyYieldDay       = &Descriptor{Address: 32114, Quantity: 2, Gain: 2, Unit: "kWh", Access: ReadOnly, Type: U32, Name: "ENERGY_YIELD_DAY"}
)

// ---- battery storage ----

var (
	StorageRunningStatus        = &Descriptor{Address: 37762, Quantity: 1, Access: ReadOnly, Type: U16, Name: "STORAGE_RUNNING_STATUS"}
	StorageChargeDischargePower = &Descriptor{Address: 37765, Quantity: 2, Gain: 0, Unit: "W", Access: ReadOnly, Type: I32, Name: "STORAGE_CHARGE_DISCHARGE_POWER"}
	StorageChargeCapacityDay    = &Descriptor{Address: 37784, Quantity: 2, Gain: 2, Unit: "kWh", Access: ReadOnly, Type: U32, Name: "STORAGE_CHARGE_CAPACITY_DAY"}
	StorageDischargeCapacityDay = &Descriptor{Address: 37786, Quantity: 2, Gain: 2, Unit: "kWh", Access: ReadOnly, Type: U32, Name: "STORAGE_DISCHARGE_CAPACITY_DAY"}
)

// PVStrings pairs the voltage and current register of each physical string.
var PVStrings = [][2]*Descriptor{
	{PV1Voltage, PV1Current},
	{PV2Voltage, PV2Current},
	{PV3Voltage, PV3Current},
	{PV4Voltage, PV4Current},
}

var catalog = []*Descriptor{
	Model, SN, PN, ModelID, NumberOfPVStrings, NumberOfMPPTrackers,
	RatedPower, MaximumActivePower, MaximumApparentPower,
	MaximumReactivePowerToGrid, MaximumApparentPowerFromGrid,

	State1, State2, State3, Alarm1, Alarm2, Alarm3,

	PV1Voltage, PV1Current, PV2Voltage, PV2Current,
	PV3Voltage, PV3Current, PV4Voltage, PV4Current,

	InputPower,
	LineVoltageAB, LineVoltageBC, LineVoltageCA,
	PhaseVoltageA, PhaseVoltageB, PhaseVoltageC,
	PhaseCurrentA, PhaseCurrentB, PhaseCurrentC,
	PeakActivePowerDay, ActivePower, ReactivePower,
	PowerFactor, GridFrequency, Efficiency, InternalTemperature,
	InsulationResistance, DeviceStatus, FaultCode, StartupTime, ShutdownTime,
	AccEnergyYield, EnergyYieldDay,

	StorageRunningStatus, StorageChargeDischargePower,
	StorageChargeCapacityDay, StorageDischargeCapacityDay,
}

var (
	byName    = make(map[string]*Descriptor, len(catalog))
	byAddress = make(map[uint16]*Descriptor, len(catalog))
)

func init() {
	for _, d := range catalog {
		byName[d.Name] = d
		byAddress[d.Address] = d
	}
}

// All returns the catalog in declaration order.
// The slice is a copy; the descriptors are shared.
func All() []*Descriptor {
	out := make([]*Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// ByName looks up a register by its symbolic name.
func ByName(name string) (*Descriptor, bool) {
	d, ok := byName[name]
	return d, ok
}

// ByAddress looks up a register by its start address.
func ByAddress(addr uint16) (*Descriptor, bool) {
	d, ok := byAddress[addr]
	return d, ok
}

// Validate checks the compiled catalog.
// Called once at startup; a failure means the binary is broken.
func Validate() error {
	return validate(catalog)
}

func validate(list []*Descriptor) error {
	names := make(map[string]struct{}, len(list))
	addrs := make(map[uint16]string, len(list))

	for _, d := range list {
		if d == nil {
			return fmt.Errorf("register catalog: nil descriptor")
		}
		if d.Name == "" {
			return fmt.Errorf("register catalog: register at %d has no name", d.Address)
		}
		if _, dup := names[d.Name]; dup {
			return fmt.Errorf("register catalog: duplicate name %q", d.Name)
		}
		names[d.Name] = struct{}{}

		if prev, dup := addrs[d.Address]; dup {
			return fmt.Errorf("register catalog: %s and %s share address %d", prev, d.Name, d.Address)
		}
		addrs[d.Address] = d.Name

		if d.Quantity < 1 || d.Quantity > MaxQuantity {
			return fmt.Errorf("register catalog: %s quantity %d outside 1..%d", d.Name, d.Quantity, MaxQuantity)
		}
		if size := d.Type.Size(); size > 0 && int(d.Quantity) != size {
			return fmt.Errorf("register catalog: %s is %s but spans %d words", d.Name, d.Type, d.Quantity)
		}
		if d.Type > String {
			return fmt.Errorf("register catalog: %s has unknown type %d", d.Name, d.Type)
		}
		if d.End() > 1<<16 {
			return fmt.Errorf("register catalog: %s runs past the 16-bit address space", d.Name)
		}
	}
	return nil
}
