package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportParticipants выгружает доску участников челленджа в XLSX (админ).
// Используется для разбора итогов битвы без доступа к БД.
func (h *BattleHandler) ExportParticipants(c *gin.Context) {
	challengeID := c.MustGet("challengeID").(uint)

	participants, err := h.challengeService.ListParticipants(challengeID)
	if err != nil {
		h.handleBattleError(c, err)
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[Export] Ошибка закрытия файла XLSX: %v", err)
		}
	}()

	sheet := "Participants"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Participant ID", "Client ID", "Damage Dealt", "Correct Answers", "Reward Claimed"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for row, p := range participants {
		values := []interface{}{p.ID, p.ClientID, p.DamageDealtTotal, p.CorrectCount, p.RewardClaimed}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("challenge_%d_participants_%s.xlsx", challengeID, time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[Export] Ошибка записи XLSX для челленджа #%d: %v", challengeID, err)
		c.Status(http.StatusInternalServerError)
	}
}
