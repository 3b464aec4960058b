package calendar

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
)

type CsvSummaryRenderer struct {
}

func NewCsvSummaryRenderer() *CsvSummaryRenderer {
	return &CsvSummaryRenderer{}
}

// RenderSummary writes a header row followed by one row per day of the month.
func (t *CsvSummaryRenderer) RenderSummary(summary MonthSummary) (string, error) {
	data := make([][]string, 0, len(summary.Days)+1)
	data = append(data, []string{"Date", "Used", "Free", "Status"})
	for _, day := range summary.Days {
		date := time.Date(summary.Year, time.Month(summary.Month+1), day.Day, 0, 0, 0, 0, time.UTC)
		data = append(data, []string{
			date.Format("02/01/2006"),
			hoursToString(day.UsedHours),
			hoursToString(day.FreeHours),
			dayStatus(day),
		})
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	for _, row := range data {
		err := writer.Write(row)
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}

	return b.String(), nil
}

func dayStatus(day DaySummary) string {
	switch {
	case day.Full:
		return "Full"
	case day.Past:
		return "Past"
	case day.Today:
		return "Today"
	}
	return "Free"
}

func hoursToString(hours int) string {
	sign := ""
	if hours < 0 {
		sign = "-"
		hours = -hours
	}
	h := strconv.Itoa(hours)
	if len(h) == 1 {
		h = "0" + h
	}
	return sign + h + ":00"
}
