package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alexanderramin/st8/internal/domain"
	"github.com/alexanderramin/st8/internal/grid"
)

// defaultSheet is the sheet excelize creates with a new workbook.
const defaultSheet = "Sheet1"

// maxSheetName is the spreadsheet limit on sheet name length.
const maxSheetName = 31

// Fixed leading columns before the day columns.
var xlsxHeader = []string{"Groupe", "Matricule", "Agent"}

// WriteMonthXLSX renders g as a single-sheet workbook: one header row of
// days, one row per agent, status cells filled with their status color.
func WriteMonthXLSX(w io.Writer, g *grid.Grid) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := sheetName(g.Title)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	styles := newStyleCache(f)
	headerStyle, err := styles.get("#1f2937", "#ffffff", true)
	if err != nil {
		return err
	}

	row := 1
	for i, h := range xlsxHeader {
		if err := setCell(f, sheet, i+1, row, h, headerStyle); err != nil {
			return err
		}
	}
	for i, col := range g.Columns {
		label := fmt.Sprintf("%s %02d", col.Weekday, col.Day)
		if err := setCell(f, sheet, len(xlsxHeader)+i+1, row, label, headerStyle); err != nil {
			return err
		}
	}

	for _, sec := range g.Sections {
		groupStyle, err := styles.get(sec.Meta.Color, domain.ReadableTextColor(sec.Meta.Color), true)
		if err != nil {
			return err
		}
		for _, r := range sec.Rows {
			row++
			if err := setCell(f, sheet, 1, row, sec.Group, groupStyle); err != nil {
				return err
			}
			if err := setCell(f, sheet, 2, row, r.Agent.ID, 0); err != nil {
				return err
			}
			if err := setCell(f, sheet, 3, row, r.Agent.DisplayName(), 0); err != nil {
				return err
			}
			for i, c := range r.Cells {
				style, err := cellStyle(styles, c)
				if err != nil {
					return err
				}
				if err := setCell(f, sheet, len(xlsxHeader)+i+1, row, c.Code, style); err != nil {
					return err
				}
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetColWidth(sheet, "C", "C", 26); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func cellStyle(styles *styleCache, c grid.Cell) (int, error) {
	switch c.Kind {
	case grid.CellStatus:
		return styles.get(c.Status.Color, "#ffffff", true)
	case grid.CellHoliday:
		return styles.get(domain.Lighten("#B91C1C", 0.7), "#7f1d1d", false)
	case grid.CellWeekend:
		return styles.get("#e5e7eb", "#111827", false)
	default:
		return 0, nil
	}
}

func setCell(f *excelize.File, sheet string, col, row int, value string, style int) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell %d,%d: %w", col, row, err)
	}
	if value != "" {
		if err := f.SetCellValue(sheet, ref, value); err != nil {
			return fmt.Errorf("cell %s: %w", ref, err)
		}
	}
	if style != 0 {
		if err := f.SetCellStyle(sheet, ref, ref, style); err != nil {
			return fmt.Errorf("cell %s style: %w", ref, err)
		}
	}
	return nil
}

// styleCache registers one workbook style per fill/font combination.
type styleCache struct {
	f   *excelize.File
	ids map[string]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, ids: map[string]int{}}
}

func (c *styleCache) get(fill, font string, bold bool) (int, error) {
	fill, font = xlsxColor(fill), xlsxColor(font)
	key := fmt.Sprintf("%s/%s/%t", fill, font, bold)
	if id, ok := c.ids[key]; ok {
		return id, nil
	}
	id, err := c.f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		Font:      &excelize.Font{Bold: bold, Color: font},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return 0, fmt.Errorf("registering style: %w", err)
	}
	c.ids[key] = id
	return id, nil
}

// xlsxColor turns a CSS hex color into the RRGGBB form workbooks store.
func xlsxColor(hex string) string {
	return strings.ToUpper(strings.TrimPrefix(domain.HexToRGB(hex).Hex(), "#"))
}

func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		return "Planning"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}
