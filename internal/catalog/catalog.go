package catalog

import (
	"fmt"
	"sort"

	everrors "everion/internal/errors"
)

// Namespace identifies which of the three tag catalogs an id belongs to.
type Namespace int

const (
	Signal Namespace = iota
	Sensor
	Feature
)

// String returns the lowercase namespace name used in logs and errors.
func (n Namespace) String() string {
	switch n {
	case Signal:
		return "signal"
	case Sensor:
		return "sensor"
	case Feature:
		return "feature"
	default:
		return fmt.Sprintf("namespace(%d)", int(n))
	}
}

// SignalTags maps signal tag ids to their semantic column names.
var SignalTags = map[int]string{
	6:   "heart_rate",
	7:   "oxygen_saturation",
	8:   "perfusion_index",
	9:   "motion_activity",
	10:  "activity_classification",
	11:  "heart_rate_variability",
	12:  "respiration_rate",
	13:  "energy",
	15:  "ctemp",
	19:  "temperature_local",
	20:  "barometer_pressure",
	21:  "gsr_electrode",
	22:  "health_score",
	23:  "relax_stress_intensity_score",
	24:  "sleep_quality_index_score",
	25:  "training_effect_score",
	26:  "activity_score",
	66:  "richness_score",
	68:  "heart_rate_quality",
	69:  "oxygen_saturation_quality",
	70:  "blood_pulse_wave",
	71:  "number_of_steps",
	72:  "activity_classification_quality",
	73:  "energy_quality",
	74:  "heart_rate_variability_quality",
	75:  "respiration_rate_quality",
	76:  "ctemp_quality",
	118: "temperature_object",
	119: "temperature_barometer",
	133: "perfusion_index_quality",
	134: "blood_pulse_wave_quality",
}

// SensorTags maps raw sensor channel tag ids to their semantic column names.
var SensorTags = map[int]string{
	80: "led1_data",
	81: "led2_data",
	82: "led3_data",
	83: "led4_data",
	84: "accx_data",
	85: "accy_data",
	86: "accz_data",
	88: "led2_current",
	89: "led3_current",
	90: "led4_current",
	91: "current_offset",
	92: "compressed_data",
}

// FeatureTags maps derived feature tag ids to their semantic column names.
var FeatureTags = map[int]string{
	14: "inter_pulse_interval",
	17: "pis",
	18: "pid",
	77: "inter_pulse_deviation",
	78: "pis_quality",
	79: "pid_quality",
}

// Default tag subsets retained when the caller does not select their own.
var (
	DefaultSignalTags  = []int{6, 7, 11, 12, 15, 19, 20, 21, 118, 119}
	DefaultSensorTags  = []int{80, 81, 82, 83, 84, 85, 86}
	DefaultFeatureTags = []int{14}
)

// AccAxisColumns are the accelerometer axis columns required for the
// derived magnitude column.
var AccAxisColumns = []string{"accx_data", "accy_data", "accz_data"}

// interPulseIntervalTag carries a deviation companion column instead of a
// quality one.
const interPulseIntervalTag = 14

// Entry is the resolved catalog entry for a tag id.
type Entry struct {
	Name      string
	Namespace Namespace
}

// merged is the single id -> entry mapping across all three namespaces,
// built once at package init. The namespaces are disjoint, so the merge
// cannot lose entries.
var merged map[int]Entry

func init() {
	merged = make(map[int]Entry, len(SignalTags)+len(SensorTags)+len(FeatureTags))
	for tag, name := range SignalTags {
		merged[tag] = Entry{Name: name, Namespace: Signal}
	}
	for tag, name := range SensorTags {
		merged[tag] = Entry{Name: name, Namespace: Sensor}
	}
	for tag, name := range FeatureTags {
		merged[tag] = Entry{Name: name, Namespace: Feature}
	}
}

// Lookup resolves a tag id across all three namespaces.
func Lookup(tag int) (Entry, error) {
	entry, ok := merged[tag]
	if !ok {
		return Entry{}, everrors.LookupError(tag)
	}
	return entry, nil
}

// Name resolves a tag id to its semantic column name.
func Name(tag int) (string, error) {
	entry, err := Lookup(tag)
	if err != nil {
		return "", err
	}
	return entry.Name, nil
}

// QualityColumn returns the companion column name for a tag: the
// inter-pulse-interval tag carries a deviation column, every other tag a
// quality column.
func QualityColumn(tag int, name string) string {
	if tag == interPulseIntervalTag {
		return name + "_deviation"
	}
	return name + "_quality"
}

// Validate checks that every selected tag id belongs to the given
// namespace. It fails fast on the first unknown id so that a bad tag
// selection is rejected before any table is processed.
func Validate(tags []int, ns Namespace) error {
	table := namespaceTable(ns)
	for _, tag := range tags {
		if _, ok := table[tag]; !ok {
			return everrors.ConfigError(tag, ns.String())
		}
	}
	return nil
}

// Tags returns the ids of a namespace in ascending order.
func Tags(ns Namespace) []int {
	table := namespaceTable(ns)
	tags := make([]int, 0, len(table))
	for tag := range table {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	return tags
}

func namespaceTable(ns Namespace) map[int]string {
	switch ns {
	case Signal:
		return SignalTags
	case Sensor:
		return SensorTags
	case Feature:
		return FeatureTags
	default:
		return nil
	}
}
