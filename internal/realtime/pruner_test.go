package realtime_test

import (
	"testing"
	"time"

	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"
	"opsmerge-backend/internal/realtime"
	"opsmerge-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// El corte de retención es estricto: 25 horas se borra, 23 horas sobrevive.
func TestPruneOnceRespetaLaVentana(t *testing.T) {
	testutil.SetupDB(t)
	now := time.Now()

	vencido := models.Anuncio{Mensaje: "turno de anoche", Usuario: "ana", Timestamp: now.Add(-25 * time.Hour)}
	vigente := models.Anuncio{Mensaje: "turno de hoy", Usuario: "ana", Timestamp: now.Add(-23 * time.Hour)}
	require.NoError(t, database.DB.Create(&vencido).Error)
	require.NoError(t, database.DB.Create(&vigente).Error)

	pruner := realtime.NewPruner(24*time.Hour, time.Minute, realtime.NewHub())
	pruner.PruneOnce(now)

	var restantes []models.Anuncio
	require.NoError(t, database.DB.Find(&restantes).Error)
	require.Len(t, restantes, 1)
	assert.Equal(t, "turno de hoy", restantes[0].Mensaje)
}

// Al vencer una discusión se van también sus respuestas, aunque estas
// sean más recientes que el hilo.
func TestPruneOnceBorraDiscusionConRespuestas(t *testing.T) {
	testutil.SetupDB(t)
	now := time.Now()

	discusion := models.Discusion{
		Mensaje:      "¿quedó lista la carga?",
		Usuario:      "ana",
		Destinatario: "bruno",
		Timestamp:    now.Add(-26 * time.Hour),
	}
	require.NoError(t, database.DB.Create(&discusion).Error)
	respuesta := models.Respuesta{
		DiscusionID: discusion.ID,
		Mensaje:     "sí, salió a las 8",
		Usuario:     "bruno",
		Timestamp:   now.Add(-1 * time.Hour),
	}
	require.NoError(t, database.DB.Create(&respuesta).Error)

	pruner := realtime.NewPruner(24*time.Hour, time.Minute, realtime.NewHub())
	pruner.PruneOnce(now)

	var discusiones, respuestas int64
	database.DB.Model(&models.Discusion{}).Count(&discusiones)
	database.DB.Model(&models.Respuesta{}).Count(&respuestas)
	assert.Zero(t, discusiones)
	assert.Zero(t, respuestas)
}

func TestPruneOnceNoTocaLoVigente(t *testing.T) {
	testutil.SetupDB(t)
	now := time.Now()

	discusion := models.Discusion{
		Mensaje:      "pendiente de mañana",
		Usuario:      "ana",
		Destinatario: "bruno",
		Timestamp:    now.Add(-2 * time.Hour),
	}
	require.NoError(t, database.DB.Create(&discusion).Error)

	pruner := realtime.NewPruner(24*time.Hour, time.Minute, realtime.NewHub())
	pruner.PruneOnce(now)

	var count int64
	database.DB.Model(&models.Discusion{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
