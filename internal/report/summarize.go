package report

import (
	"sort"

	"github.com/fanwhy/fanwhy/internal/model"
)

// Summarize reduces a sample sequence to its aggregates. Samples without a
// temperature reading are left out of the temperature statistics entirely;
// when none carry one the aggregate itself stays unavailable. topN bounds
// how deep into each sample's ranking the process table looks (<=0 means
// the full ranking). Pure function, no I/O.
func Summarize(samples []model.Sample, topN int) model.Summary {
	sum := model.Summary{Samples: len(samples)}
	if len(samples) == 0 {
		return sum
	}

	type nameAgg struct {
		user  string
		count int
		share float64
	}
	byName := make(map[string]*nameAgg)

	var cpuSum, tempSum float64
	tempCount := 0
	for _, s := range samples {
		cpuSum += s.CPUPercent
		if s.CPUPercent > sum.MaxCPU {
			sum.MaxCPU = s.CPUPercent
		}
		if s.Temp.Valid {
			tempSum += s.Temp.Celsius
			tempCount++
			if !sum.MaxTemp.Valid || s.Temp.Celsius > sum.MaxTemp.Celsius {
				sum.MaxTemp = s.Temp
			}
		}
		ranked := s.Processes
		if topN > 0 {
			ranked = s.TopN(topN)
		}
		for _, p := range ranked {
			a := byName[p.Name]
			if a == nil {
				a = &nameAgg{user: p.User}
				byName[p.Name] = a
			}
			a.count++
			a.share += p.CPU
		}
	}

	sum.AvgCPU = cpuSum / float64(len(samples))
	if tempCount > 0 {
		sum.AvgTemp = model.TempReading{Celsius: tempSum / float64(tempCount), Valid: true}
	}

	sum.Processes = make([]model.ProcessAggregate, 0, len(byName))
	for name, a := range byName {
		sum.Processes = append(sum.Processes, model.ProcessAggregate{
			Name:   name,
			User:   a.user,
			Count:  a.count,
			AvgCPU: a.share / float64(a.count),
		})
	}
	sort.Slice(sum.Processes, func(i, j int) bool {
		pi, pj := sum.Processes[i], sum.Processes[j]
		if pi.Count != pj.Count {
			return pi.Count > pj.Count
		}
		if pi.AvgCPU != pj.AvgCPU {
			return pi.AvgCPU > pj.AvgCPU
		}
		return pi.Name < pj.Name
	})
	return sum
}
