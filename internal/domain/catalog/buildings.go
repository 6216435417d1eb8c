package catalog

// Building identifiers referenced by rules outside the table.
const (
	BuildingCursor  BuildingID = "cursor"
	BuildingGrandma BuildingID = "grandma"
)

func defaultBuildings() []Building {
	return []Building{
		{ID: "cursor", Name: "Cursor", BaseCost: 15, BaseProduction: 0.1, Description: "Clica automaticamente uma vez a cada 10 segundos."},
		{ID: "grandma", Name: "Vovó", BaseCost: 100, BaseProduction: 1, Description: "Uma doce vovó para assar biscoitos."},
		{ID: "farm", Name: "Fazenda", BaseCost: 1100, BaseProduction: 8, Description: "Cultiva plantas de biscoito."},
		{ID: "mine", Name: "Mina", BaseCost: 12000, BaseProduction: 47, Description: "Mina massa de biscoito."},
		{ID: "factory", Name: "Fábrica", BaseCost: 130000, BaseProduction: 260, Description: "Produção industrial em massa."},
		{ID: "bank", Name: "Banco", BaseCost: 1.4e6, BaseProduction: 1400, Description: "Gera biscoitos com juros."},
		{ID: "temple", Name: "Templo", BaseCost: 2e7, BaseProduction: 7800, Description: "Biscoitos abençoados."},
		{ID: "wizard", Name: "Torre de Mago", BaseCost: 3.3e8, BaseProduction: 44000, Description: "Invoca biscoitos com magia."},
		{ID: "shipment", Name: "Foguete", BaseCost: 5.1e9, BaseProduction: 260000, Description: "Traz biscoitos do planeta Biscoito."},
		{ID: "alchemy", Name: "Lab. Alquimia", BaseCost: 7.5e10, BaseProduction: 1.6e6, Description: "Transforma ouro em biscoitos."},
		{ID: "portal", Name: "Portal", BaseCost: 1e12, BaseProduction: 1e7, Description: "Abre portais para o Biscoitoverso."},
		{ID: "time_machine", Name: "Máq. do Tempo", BaseCost: 1.4e13, BaseProduction: 6.5e7, Description: "Traz biscoitos do passado."},
		{ID: "prism", Name: "Prisma", BaseCost: 1.7e14, BaseProduction: 4.3e8, Description: "Converte luz em biscoitos."},
		{ID: "antimatter", Name: "Cond. Antimatéria", BaseCost: 2.1e15, BaseProduction: 3.1e9, Description: "Condensa o nada em biscoitos."},
		{ID: "javascript", Name: "Console JS", BaseCost: 2.6e16, BaseProduction: 2.1e10, Description: "Cria biscoitos com código puro."},
		{ID: "fractal", Name: "Motor Fractal", BaseCost: 3.1e17, BaseProduction: 1.5e11, Description: "Biscoitos que fazem biscoitos."},
		{ID: "chance", Name: "Gerador de Sorte", BaseCost: 3.8e18, BaseProduction: 1.1e12, Description: "Manipula a probabilidade doce."},
		{ID: "idleverse", Name: "Ocioso-verso", BaseCost: 4.6e19, BaseProduction: 8.3e12, Description: "Universos inteiros de biscoito."},
		{ID: "cortex", Name: "Padeiro Córtex", BaseCost: 5.4e20, BaseProduction: 6.4e13, Description: "Sonha com biscoitos infinitos."},
		{ID: "you", Name: "Você", BaseCost: 6.5e21, BaseProduction: 5.1e14, Description: "Literalmente você fazendo biscoitos."},
	}
}
