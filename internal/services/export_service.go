package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

const ExportSheetName = "Schools"

var exportHeader = []interface{}{"ID", "Name", "Address", "City", "State", "Contact", "Email", "Image"}

type exportService struct {
	schools SchoolService
	logger  *slog.Logger
}

func NewExportService(schools SchoolService, logger *slog.Logger) ExportService {
	return &exportService{
		schools: schools,
		logger:  logger,
	}
}

// ExportSchools renders the school list as an xlsx workbook, in list order
func (s *exportService) ExportSchools(ctx context.Context) (*bytes.Buffer, error) {
	schools, err := s.schools.List(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", ExportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(ExportSheetName, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	for i, school := range schools {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		row := []interface{}{
			school.ID,
			school.Name,
			school.Address,
			school.City,
			school.State,
			school.Contact,
			school.EmailID,
			school.Image,
		}
		if err := f.SetSheetRow(ExportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write school %d: %w", school.ID, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.InfoContext(ctx, "Exported schools", "count", len(schools))
	return buf, nil
}
