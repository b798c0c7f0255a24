package realtime

import (
	"log"
	"time"

	"opsmerge-backend/internal/database"
	"opsmerge-backend/internal/models"
)

// Pruner elimina anuncios y discusiones fuera de la ventana de retención.
// Corre como trabajo periódico independiente: la lectura del feed nunca
// tiene efectos secundarios y dos lectores no compiten por borrar lo mismo.
type Pruner struct {
	Retention time.Duration
	Interval  time.Duration
	Hub       *Hub

	stop chan struct{}
}

func NewPruner(retention, interval time.Duration, hub *Hub) *Pruner {
	return &Pruner{
		Retention: retention,
		Interval:  interval,
		Hub:       hub,
		stop:      make(chan struct{}),
	}
}

func (p *Pruner) Start() {
	go func() {
		ticker := time.NewTicker(p.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.PruneOnce(time.Now())
			case <-p.stop:
				return
			}
		}
	}()
}

func (p *Pruner) Stop() {
	close(p.stop)
}

// PruneOnce borra todo lo anterior a now-Retention. Los fallos se registran
// en el log y nada más; el siguiente tick lo vuelve a intentar.
func (p *Pruner) PruneOnce(now time.Time) {
	cutoff := now.Add(-p.Retention)

	var anuncios []models.Anuncio
	if err := database.DB.Where("timestamp <= ?", cutoff).Find(&anuncios).Error; err != nil {
		log.Printf("No se pudieron buscar anuncios vencidos: %v", err)
	} else {
		for _, a := range anuncios {
			if err := database.DB.Delete(&models.Anuncio{}, a.ID).Error; err != nil {
				log.Printf("No se pudo eliminar el anuncio %d: %v", a.ID, err)
				continue
			}
			if p.Hub != nil {
				p.Hub.Broadcast(Event{Tipo: "anuncio", Accion: "eliminado", ID: a.ID})
			}
		}
		if len(anuncios) > 0 {
			log.Printf("Retención: %d anuncio(s) eliminados", len(anuncios))
		}
	}

	var discusiones []models.Discusion
	if err := database.DB.Where("timestamp <= ?", cutoff).Find(&discusiones).Error; err != nil {
		log.Printf("No se pudieron buscar discusiones vencidas: %v", err)
		return
	}
	for _, d := range discusiones {
		// Las respuestas se borran primero; no todos los motores aplican el CASCADE.
		if err := database.DB.Where("discusion_id = ?", d.ID).Delete(&models.Respuesta{}).Error; err != nil {
			log.Printf("No se pudieron eliminar las respuestas de la discusión %d: %v", d.ID, err)
			continue
		}
		if err := database.DB.Delete(&models.Discusion{}, d.ID).Error; err != nil {
			log.Printf("No se pudo eliminar la discusión %d: %v", d.ID, err)
			continue
		}
		if p.Hub != nil {
			p.Hub.Broadcast(Event{Tipo: "discusion", Accion: "eliminado", ID: d.ID})
		}
	}
	if len(discusiones) > 0 {
		log.Printf("Retención: %d discusión(es) eliminadas", len(discusiones))
	}
}
