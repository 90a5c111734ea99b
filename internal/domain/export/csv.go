package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

func writeAll(w io.Writer, header []string, records [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func WriteAssignmentsCSV(w io.Writer, rows []AssignmentRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{r.EvaluatorID, r.EvaluatorName, r.EvaluateeID, r.EvaluateeName, string(r.Role)})
	}
	return writeAll(w, []string{"evaluator_id", "evaluator_name", "evaluatee_id", "evaluatee_name", "role"}, records)
}

func WriteWorkloadCSV(w io.Writer, rows []WorkloadRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.EvaluatorID,
			r.EvaluatorName,
			strconv.Itoa(r.Boss),
			strconv.Itoa(r.Peer),
			strconv.Itoa(r.Team),
			strconv.Itoa(r.Total),
			r.Load,
		})
	}
	return writeAll(w, []string{"evaluator_id", "evaluator_name", "boss", "peer", "team", "total", "load"}, records)
}

func WriteCoverageCSV(w io.Writer, rows []CoverageRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.EvaluateeID,
			r.Name,
			strconv.FormatBool(r.Self),
			strconv.Itoa(r.Managers),
			strconv.Itoa(r.Peers),
			strconv.Itoa(r.Subordinates),
			strconv.Itoa(r.Incoming),
			strconv.Itoa(r.Outgoing),
			joinFindings(r.Findings),
			strconv.FormatBool(r.Blocked),
		})
	}
	return writeAll(w, []string{"evaluatee_id", "name", "self", "managers", "peers", "subordinates", "incoming", "outgoing", "findings", "blocked"}, records)
}
