package service

import (
	"sort"
	"time"

	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/model"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/refdata"
	"github.com/Hypha-Media-UK/Porter-Task-Management/internal/repository"
)

// ShiftReport 交班报告
type ShiftReport struct {
	Date           string
	Shift          string
	ShiftStart     string
	ShiftEnd       string
	TotalTasks     int
	CompletedCount int
	PendingCount   int
	StaffCounts    []StaffCount
	Lines          []ReportLine
	ArchivedAt     time.Time
	GeneratedAt    time.Time
}

// StaffCount 按运送员统计的任务数
type StaffCount struct {
	Staff string
	Count int
}

// ReportLine 报告中的任务行,全部解析为显示名
type ReportLine struct {
	JobType       string
	From          string
	To            string
	Transport     string
	TimeReceived  string
	TimeAllocated string
	TimeCompleted string
	Staff         string
	Status        string
}

// ReportService 交班报告服务接口
type ReportService interface {
	BuildReport(date, shiftName string) (*ShiftReport, error)
	ListArchives() ([]*model.ArchivedShift, error)
}

type reportService struct {
	archives repository.ArchiveRepository
	ref      *refdata.Store
	now      func() time.Time
}

// NewReportService 创建交班报告服务
func NewReportService(archives repository.ArchiveRepository, ref *refdata.Store) ReportService {
	return &reportService{
		archives: archives,
		ref:      ref,
		now:      time.Now,
	}
}

// BuildReport 基于归档构建指定日期和班次的报告
// 无归档时返回 ErrNotFound
func (s *reportService) BuildReport(date, shiftName string) (*ShiftReport, error) {
	am, err := s.archives.FindByDateShift(date, shiftName)
	if err != nil {
		return nil, err
	}
	snapshot, err := am.Decode()
	if err != nil {
		return nil, err
	}

	report := &ShiftReport{
		Date:        snapshot.Date,
		Shift:       snapshot.Shift,
		ShiftStart:  snapshot.ShiftStart,
		ShiftEnd:    snapshot.ShiftEnd,
		TotalTasks:  len(snapshot.Tasks),
		ArchivedAt:  snapshot.ArchivedAt,
		GeneratedAt: s.now(),
	}

	byStaff := make(map[string]int)
	for i := range snapshot.Tasks {
		task := &snapshot.Tasks[i]
		if task.Status == model.StatusCompleted {
			report.CompletedCount++
		} else {
			report.PendingCount++
		}

		staffName := s.ref.StaffName(task.StaffID)
		byStaff[staffName]++

		report.Lines = append(report.Lines, ReportLine{
			JobType:       s.ref.JobTypeName(task.ItemTypeID),
			From:          s.ref.DepartmentName(task.FromDepartmentID),
			To:            s.ref.DepartmentName(task.ToDepartmentID),
			Transport:     orDash(task.TransportType),
			TimeReceived:  task.TimeReceived,
			TimeAllocated: orDashPtr(task.TimeAllocated),
			TimeCompleted: orDashPtr(task.TimeCompleted),
			Staff:         staffName,
			Status:        task.Status,
		})
	}

	for staff, count := range byStaff {
		report.StaffCounts = append(report.StaffCounts, StaffCount{Staff: staff, Count: count})
	}
	// 稳定输出顺序: 任务数降序,同数按姓名
	sort.Slice(report.StaffCounts, func(i, j int) bool {
		if report.StaffCounts[i].Count != report.StaffCounts[j].Count {
			return report.StaffCounts[i].Count > report.StaffCounts[j].Count
		}
		return report.StaffCounts[i].Staff < report.StaffCounts[j].Staff
	})

	return report, nil
}

// ListArchives 列出全部归档快照,损坏的记录跳过
func (s *reportService) ListArchives() ([]*model.ArchivedShift, error) {
	rows, err := s.archives.FindAll()
	if err != nil {
		return nil, err
	}
	snapshots := make([]*model.ArchivedShift, 0, len(rows))
	for _, am := range rows {
		snapshot, err := am.Decode()
		if err != nil {
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func orDashPtr(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
