package pipeline

import (
	"fmt"
	"strconv"

	"github.com/hydrokr/stationd/internal/domain"
)

const missingValue = "N/A"

// demoMarker annotates answers built from substituted data so that a
// degraded upstream is visible to the end caller.
const demoMarker = " (데모 데이터)"

// directAnswer builds the one-sentence answer for the primary station,
// phrased per station type: dams report level and storage rate, level
// gauges report level and status, rain gauges report rainfall and status.
func directAnswer(st domain.Station, reading domain.Reading) string {
	var answer string
	switch st.Type {
	case domain.TypeDam:
		answer = fmt.Sprintf("%s의 현재 수위는 %s이며, 저수율은 %s입니다.",
			st.Name, formatValue(reading.WaterLevel, "m"), formatValue(reading.StorageRate, "%"))
	case domain.TypeRainfall:
		answer = fmt.Sprintf("%s의 현재 강수량은 %s이며, 상태는 %s입니다.",
			st.Name, formatValue(reading.Rainfall, "mm"), reading.Status)
	default:
		answer = fmt.Sprintf("%s의 현재 수위는 %s이며, 상태는 %s입니다.",
			st.Name, formatValue(reading.WaterLevel, "m"), reading.Status)
	}

	if reading.Synthetic {
		answer += demoMarker
	}
	return answer
}

// summary builds the short one-line digest of the primary station.
func summary(st domain.Station, reading domain.Reading) string {
	var s string
	switch st.Type {
	case domain.TypeRainfall:
		s = fmt.Sprintf("%s 현재 강수량 %s", st.Name, formatValue(reading.Rainfall, "mm"))
	default:
		s = fmt.Sprintf("%s 현재 수위 %s", st.Name, formatValue(reading.WaterLevel, "m"))
	}
	if reading.Synthetic {
		s += demoMarker
	}
	return s
}

func noMatchAnswer(stationName string) string {
	return fmt.Sprintf("'%s'에 해당하는 관측소를 찾을 수 없습니다. 관측소 이름을 확인해주세요.", stationName)
}

func noMatchSummary(stationName string) string {
	return fmt.Sprintf("'%s' 관측소 없음", stationName)
}

func formatValue(v *float64, unit string) string {
	if v == nil {
		return missingValue
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + unit
}
