package repository

import "wellness-tracker/internal/model"

func act(id, title, duration, description string) model.Activity {
	return model.Activity{ID: id, Title: title, Duration: duration, Description: description}
}

// DefaultCatalog is the built-in set of categories and activities seeded on start.
func DefaultCatalog() []model.Category {
	return []model.Category{
		{
			ID: "1", Title: "Meditaciones", Icon: "🧘", TabIcon: "fitness-outline", Color: "#A78BFA",
			Activities: []model.Activity{
				act("101", "Meditación para reducir ansiedad", "10 min", "Meditación guiada con respiración y visualización para calmar la mente."),
				act("102", "Meditación de atención plena", "15 min", "Conecta con el momento presente y observa tus pensamientos."),
				act("103", "Meditación para conciliar el sueño", "20 min", "Relajación profunda para preparar cuerpo y mente antes de dormir."),
				act("104", "Meditación de gratitud", "8 min", "Breve práctica para cultivar la gratitud."),
			},
		},
		{
			ID: "2", Title: "Ejercicios", Icon: "🏃", TabIcon: "body-outline", Color: "#6B8BFF",
			Activities: []model.Activity{
				act("201", "Respiración consciente", "5 min", "Técnica de respiración para reducir el estrés."),
				act("202", "Estiramientos antiestrés", "12 min", "Estiramientos suaves para liberar la tensión acumulada."),
				act("203", "Yoga restaurativo", "25 min", "Posturas cómodas sostenidas con apoyos para una relajación profunda."),
			},
		},
		{
			ID: "3", Title: "Lecturas", Icon: "📚", TabIcon: "book-outline", Color: "#4CAF50",
			Activities: []model.Activity{
				act("301", "Entendiendo la ansiedad", "8 min lectura", "Causas de la ansiedad y estrategias para manejarla."),
				act("302", "Hábitos para el bienestar", "10 min lectura", "Pequeños hábitos diarios para el bienestar emocional."),
				act("303", "El poder de la autocompasión", "12 min lectura", "Cómo una actitud amable hacia ti mismo transforma tu salud mental."),
			},
		},
		{
			ID: "4", Title: "Sonidos", Icon: "🎵", TabIcon: "musical-notes-outline", Color: "#FF9800",
			Activities: []model.Activity{
				act("401", "Lluvia relajante", "30 min", "Lluvia suave para relajarse o concentrarse."),
				act("402", "Música para meditación", "45 min", "Música para acompañar la meditación."),
				act("403", "Sonidos del bosque", "60 min", "Pájaros, hojas y arroyos de un bosque tranquilo."),
				act("404", "Ondas del océano", "50 min", "Olas del mar como ruido blanco para dormir mejor."),
			},
		},
	}
}
