package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/fabstash/backend/internal/domain/models"
	"github.com/fabstash/backend/internal/query"
	"github.com/fabstash/backend/internal/service/inventory"
)

// Service renders an owner's filtered inventory as an xlsx workbook.
type Service struct {
	inventory *inventory.Service
	logger    *zap.Logger
}

// NewService wires the export service.
func NewService(inv *inventory.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{inventory: inv, logger: logger}
}

// Workbook builds the spreadsheet for the filtered, sorted inventory and
// returns its serialized bytes.
func (s *Service) Workbook(ctx context.Context, ownerID primitive.ObjectID, filter query.FilterRequest, plan query.SortPlan) ([]byte, error) {
	fabrics, err := s.inventory.ListAll(ctx, ownerID, filter, plan)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"Name", "Brand", "Materials", "Tags",
		"Length", "Unit", "Width", "Used", "Remaining",
		"Length (m)", "Remaining (m)", "Price", "Favorite", "Created",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write export header: %w", err)
	}

	row := 2
	for _, fabric := range fabrics {
		values := []interface{}{
			fabric.Name,
			refName(fabric.Brand, fabric.BrandText),
			refNames(fabric.Materials, fabric.MaterialsText),
			refNames(fabric.Tags, fabric.TagsText),
			fabric.Length,
			string(fabric.LengthUnit),
			fabric.Width,
			fabric.UsedLength,
			fabric.RemainingLength,
			fabric.LengthInMeters,
			fabric.RemainingLengthInMeters,
			fabric.Price,
			fabric.IsFavorite,
			fabric.CreatedAt.Format("2006-01-02"),
		}

		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("compute export cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write export row: %w", err)
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}

	s.logger.Info("inventory exported", zap.Int("rows", len(fabrics)))
	return buf.Bytes(), nil
}

func refName(ref *models.NamedRef, fallback string) string {
	if ref != nil {
		return ref.Name
	}
	return fallback
}

func refNames(refs []models.NamedRef, fallback string) string {
	if len(refs) == 0 {
		return fallback
	}
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return strings.Join(names, ", ")
}
