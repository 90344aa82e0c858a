package team

import (
	"math/big"

	"github.com/google/uuid"
)

// GradeScale is the numeric weight of each grade used for averaging.
var GradeScale = map[TaskGrade]int64{
	GradeFailed:          0,
	GradeDoneDeadlineOut: 1,
	GradeDoneDeadline:    2,
	GradeDoneInitiative:  3,
}

// GradePrecision is the number of decimal places averages are rounded to.
const GradePrecision = 4

// GradedTask is the projection grading queries return.
type GradedTask struct {
	TaskID     uuid.UUID `json:"task_id"`
	Title      string    `json:"title"`
	AssigneeID uuid.UUID `json:"assignee_id"`
	Grade      TaskGrade `json:"grade"`
}

// AverageGrade returns the mean weight of grades rounded half-up, or nil when
// no grade in the input is known to GradeScale.
func AverageGrade(grades []TaskGrade) *float64 {
	mean := meanOfGrades(grades)
	if mean == nil {
		return nil
	}
	return roundHalfUp(mean, GradePrecision)
}

// CommandAverage is the unweighted mean of each assignee's own average. Per
// assignee means are kept exact and only the final figure is rounded.
func CommandAverage(byAssignee map[uuid.UUID][]TaskGrade) *float64 {
	sum := new(big.Rat)
	n := int64(0)
	for _, grades := range byAssignee {
		mean := meanOfGrades(grades)
		if mean == nil {
			continue
		}
		sum.Add(sum, mean)
		n++
	}
	if n == 0 {
		return nil
	}
	return roundHalfUp(sum.Quo(sum, big.NewRat(n, 1)), GradePrecision)
}

// GroupByAssignee buckets graded tasks for CommandAverage.
func GroupByAssignee(tasks []GradedTask) map[uuid.UUID][]TaskGrade {
	out := make(map[uuid.UUID][]TaskGrade)
	for _, t := range tasks {
		out[t.AssigneeID] = append(out[t.AssigneeID], t.Grade)
	}
	return out
}

func meanOfGrades(grades []TaskGrade) *big.Rat {
	var sum, n int64
	for _, g := range grades {
		v, ok := GradeScale[g]
		if !ok {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	return big.NewRat(sum, n)
}

// roundHalfUp rounds a non-negative rational to places decimals.
func roundHalfUp(x *big.Rat, places int) *float64 {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(places)), nil)
	scaled := new(big.Rat).Mul(x, new(big.Rat).SetInt(scale))
	scaled.Add(scaled, big.NewRat(1, 2))
	q := new(big.Int).Quo(scaled.Num(), scaled.Denom())
	f, _ := new(big.Rat).SetFrac(q, scale).Float64()
	return &f
}
