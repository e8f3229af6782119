package catalog

// Seed provides the product catalog shipped with the assistant.
func Seed() []Product {
	return []Product{
		{
			ID:          "adeslas-dental",
			Name:        "Adeslas Dental",
			Category:    Dental,
			StrongPoint: "Más de 40 servicios dentales incluidos sin coste y franquicias reducidas en el resto.",
			Features: []string{
				"Consultas, limpiezas anuales y radiografías incluidas",
				"Franquicias bajas en tratamientos como endodoncias o implantes",
				"Amplia red de clínicas dentales propias y concertadas",
			},
			Advantages: []string{
				"Sin periodos de carencia",
				"Sin límite de edad de contratación",
				"Precio muy competitivo para toda la familia",
			},
			Limitations: []string{
				"Los tratamientos complejos tienen franquicia",
				"Solo se puede usar en la red concertada",
			},
			DefenseArguments: []string{
				"Una sola limpieza anual y una revisión ya cubren casi el coste de la póliza",
				"Cancelar supone perder las franquicias reducidas en tratamientos en curso",
				"Puede ajustarse la póliza a los miembros de la familia que más la usan",
			},
			IdealClient: []string{
				"Familias con niños",
				"Personas que acuden al dentista al menos una vez al año",
			},
		},
		{
			ID:          "adeslas-dental-max",
			Name:        "Adeslas Dental Max",
			Category:    Dental,
			StrongPoint: "Ortodoncia e implantes con condiciones preferentes y cobertura ampliada.",
			Features: []string{
				"Todos los servicios de Adeslas Dental",
				"Ortodoncia con precios cerrados",
				"Implantología con descuentos adicionales",
			},
			Advantages: []string{
				"Ahorro importante en tratamientos de alto coste",
				"Financiación de tratamientos sin intereses",
			},
			Limitations: []string{
				"Prima superior a la modalidad básica",
				"Algunas técnicas estéticas no están incluidas",
			},
			DefenseArguments: []string{
				"Un solo implante al precio de mercado supera varios años de prima",
				"Los tratamientos de ortodoncia en curso mantienen el precio cerrado",
			},
			IdealClient: []string{
				"Adultos con previsión de implantes",
				"Familias con hijos en edad de ortodoncia",
			},
		},
		{
			ID:          "adeslas-go",
			Name:        "Adeslas GO",
			Category:    Ambulatory,
			StrongPoint: "Acceso inmediato a especialistas y pruebas diagnósticas con copago.",
			Features: []string{
				"Medicina primaria, especialistas y urgencias ambulatorias",
				"Pruebas diagnósticas básicas y de alta tecnología",
				"Videoconsulta con médicos de familia 24 horas",
			},
			Advantages: []string{
				"Prima de entrada reducida gracias al copago",
				"Sin listas de espera para especialistas",
			},
			Limitations: []string{
				"No incluye hospitalización ni intervenciones quirúrgicas",
				"Copago por cada acto médico",
			},
			DefenseArguments: []string{
				"La videoconsulta ahorra desplazamientos y días de trabajo",
				"Cambiar de compañía implica nuevos periodos de carencia en pruebas",
			},
			IdealClient: []string{
				"Jóvenes y autónomos que buscan un primer seguro",
				"Personas con buena salud que quieren agilidad en diagnósticos",
			},
		},
		{
			ID:          "adeslas-basico",
			Name:        "Adeslas Básico",
			Category:    Ambulatory,
			StrongPoint: "Cobertura ambulatoria completa sin copagos.",
			Features: []string{
				"Especialistas y pruebas diagnósticas sin copago",
				"Urgencias ambulatorias en centros concertados",
			},
			Advantages: []string{
				"Coste previsible: sin pagos adicionales por uso",
				"Acceso al cuadro médico completo",
			},
			Limitations: []string{
				"No cubre ingresos hospitalarios",
				"Prima superior a las modalidades con copago",
			},
			DefenseArguments: []string{
				"Para un uso frecuente resulta más barato que una póliza con copago",
				"Puede ampliarse a hospitalización sin nuevo cuestionario de salud en la renovación",
			},
		},
		{
			ID:          "adeslas-plena",
			Name:        "Adeslas Plena",
			Category:    Hospital,
			StrongPoint: "Asistencia completa: ambulatoria, hospitalaria y quirúrgica.",
			Features: []string{
				"Hospitalización médica, quirúrgica y pediátrica",
				"Parto y cobertura del recién nacido",
				"Tratamientos especiales como oncología y radioterapia",
			},
			Advantages: []string{
				"Habitación individual con cama para acompañante",
				"Segunda opinión médica internacional",
			},
			Limitations: []string{
				"Periodos de carencia para parto e intervenciones",
				"Prima más alta que las modalidades ambulatorias",
			},
			DefenseArguments: []string{
				"Una sola intervención quirúrgica privada supera con creces la prima anual",
				"La antigüedad acumulada elimina carencias que se perderían al cambiar",
				"Existe la versión con copagos para reducir la cuota sin perder coberturas",
			},
			IdealClient: []string{
				"Familias que planean tener hijos",
				"Personas que quieren la máxima tranquilidad ante una hospitalización",
			},
		},
		{
			ID:          "adeslas-plena-plus",
			Name:        "Adeslas Plena Plus",
			Category:    Hospital,
			StrongPoint: "Todo lo de Plena con reembolso de gastos fuera del cuadro médico.",
			Features: []string{
				"Coberturas de Adeslas Plena",
				"Reembolso del 80% de gastos en médicos de libre elección",
			},
			Advantages: []string{
				"Libertad para elegir cualquier médico u hospital",
				"Cobertura en el extranjero",
			},
			Limitations: []string{
				"Límite anual de reembolso",
				"Requiere adelantar el pago en la libre elección",
			},
			DefenseArguments: []string{
				"Mantiene al especialista de confianza del cliente aunque no esté en el cuadro",
				"Una baja supone perder el reembolso en tratamientos ya iniciados",
			},
			IdealClient: []string{
				"Clientes con médicos de confianza fuera del cuadro médico",
				"Personas que viajan con frecuencia",
			},
		},
		{
			ID:          "mybox-salud",
			Name:        "MyBox Salud",
			Category:    MyBox,
			StrongPoint: "Seguro de salud con ahorro: parte de la prima se acumula en un fondo propio.",
			Features: []string{
				"Asistencia sanitaria completa",
				"Fondo de ahorro vinculado a la póliza",
			},
			Advantages: []string{
				"Combina protección y ahorro en un solo producto",
				"Ventajas fiscales según la normativa vigente",
			},
			Limitations: []string{
				"Permanencia mínima para disponer del ahorro",
			},
			DefenseArguments: []string{
				"Cancelar antes de la permanencia mínima supone perder rendimiento del fondo",
				"El ahorro acumulado puede destinarse a gastos médicos no cubiertos",
			},
		},
		{
			ID:          "adeslas-negocios",
			Name:        "Adeslas Negocios",
			Category:    Business,
			StrongPoint: "Seguro de salud para autónomos y pymes con deducción fiscal.",
			Features: []string{
				"Asistencia completa para el titular y sus empleados",
				"Desde 2 asegurados",
			},
			Advantages: []string{
				"Deducible en el IRPF o Impuesto de Sociedades",
				"Retribución flexible para empleados",
			},
			Limitations: []string{
				"Requiere vínculo profesional con la empresa",
			},
			DefenseArguments: []string{
				"La deducción fiscal reduce el coste real de la póliza",
				"Es una herramienta para retener talento en la empresa",
			},
			IdealClient: []string{
				"Autónomos",
				"Pequeñas y medianas empresas",
			},
		},
	}
}
