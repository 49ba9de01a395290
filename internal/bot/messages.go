package bot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ahleite/plannito-bot/internal/model"
)

// All user-facing copy lives here, in Portuguese like the backend's
// category set.

func errorResponse() string {
	return "❌ Ocorreu um erro ao processar sua mensagem. Por favor, tente novamente mais tarde."
}

func cannotProcessResponse() string {
	return "❌ Não conseguimos processar sua mensagem corretamente. Por favor, tente novamente."
}

func invalidMessageResponse() string {
	return "📌 *Mensagem inválida*\n\n" +
		"Por favor, envie no formato:\n" +
		"• \"Gastei [valor] em [categoria]\"\n" +
		"• \"Adicionei [valor] em [categoria]\"\n\n" +
		"Exemplo: _\"Gastei 50 reais em transporte\"_"
}

func welcomeMessage(userName string) string {
	return fmt.Sprintf(
		"👋 Olá %s, eu sou o Plannito! 🤖\n\n"+
			"*Seu assistente financeiro inteligente*\n\n"+
			"Posso ajudar você com:\n"+
			"✓ Registrar gastos e receitas\n"+
			"✓ Listar suas categorias\n"+
			"✓ Mostrar um resumo da sessão\n\n"+
			"*Como usar:*\n"+
			"- \"Gastei 100 em combustível\"\n"+
			"- \"Adicionei 1500 de salário\"\n"+
			"- \"Resumo\"\n\n"+
			"Me diga como posso ajudar! 💚", userName)
}

func helpMessage() string {
	return "📋 *Menu de Ajuda*\n\n" +
		"• *Categorias* - Ver suas categorias\n" +
		"• *Resumo* - Resumo das transações da sessão\n" +
		"• *Ajuda* - Mostra esta mensagem\n\n" +
		"Para registrar, envie algo como _\"Gastei 50 em transporte\"_."
}

func categoryCreationMessage() string {
	return "➕ Novas categorias são criadas pelo aplicativo Planno. " +
		"Depois de criar, é só me mandar a transação que eu encontro a categoria."
}

func formatCategoriesList(categories []model.Category) string {
	var b strings.Builder
	for _, c := range categories {
		marker := "📉"
		if c.Kind == model.KindIncome {
			marker = "📈"
		}
		fmt.Fprintf(&b, "• %s %s\n", c.Title, marker)
	}
	return strings.TrimRight(b.String(), "\n")
}

func listCategoriesMessage(categories []model.Category) string {
	var expenses, incomes []model.Category
	for _, c := range categories {
		if c.Kind == model.KindIncome {
			incomes = append(incomes, c)
		} else {
			expenses = append(expenses, c)
		}
	}

	return "📂 *Suas categorias:*\n\n" +
		"📉 *Despesas:*\n" + formatCategoriesList(expenses) + "\n\n" +
		"📈 *Receitas:*\n" + formatCategoriesList(incomes)
}

func noCategoriesMessage() string {
	return "😕 Você ainda não tem categorias cadastradas."
}

func suggestCategoryMessage(original, suggested string, categories []model.Category) string {
	return fmt.Sprintf(
		"🔍 *Sugestão de Categoria*\n\n"+
			"Para %q, sugerimos usar:\n*%s*\n\n"+
			"*Categorias disponíveis:*\n%s\n\n"+
			"Deseja usar *%s*? (Sim/Não)",
		original, suggested, formatCategoriesList(categories), suggested)
}

func categoryAcknowledgedMessage(suggested string) string {
	return fmt.Sprintf("✅ Combinado! Vou usar a categoria *%s*. Me envie a transação novamente para registrar.", suggested)
}

func canceledMessage() string {
	return "❌ Operação cancelada."
}

func accountListMessage(accounts []model.BankAccount) string {
	var b strings.Builder
	for i, account := range accounts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, account.Name)
	}
	return "💳 *Selecione uma Conta Bancária*\n\n" +
		strings.TrimRight(b.String(), "\n") +
		"\n\nResponda com o número da conta que deseja usar."
}

func accountAutoSelectedMessage(name string) string {
	return fmt.Sprintf("✅ Conta %s selecionada automaticamente.", name)
}

func accountSelectedMessage(name string) string {
	return fmt.Sprintf("✅ Conta selecionada: *%s*", name)
}

func noAccountsMessage() string {
	return "❌ Não há contas bancárias registradas. Por favor, adicione uma conta antes de continuar."
}

func noAccountSelectedMessage() string {
	return "❌ Não há conta bancária selecionada. Por favor, selecione uma conta antes de continuar."
}

func kindLabel(kind model.TransactionKind) string {
	if kind == model.KindIncome {
		return "📥 Entrada"
	}
	return "📤 Saída"
}

func confirmTransactionMessage(draft *model.Draft, account *model.BankAccount) string {
	return fmt.Sprintf(
		"✅ *Confirme a transação:*\n\n"+
			"▸ *Conta:* %s\n"+
			"▸ *Valor:* R$ %s\n"+
			"▸ *Categoria:* %s\n"+
			"▸ *Tipo:* %s\n\n"+
			"Se tudo estiver correto, confirme com *Sim* ou cancele com *Não*.",
		account.Name, draft.Amount.StringFixed(2), draft.Category, kindLabel(draft.Kind))
}

func transactionSentMessage(draft *model.Draft, account *model.BankAccount) string {
	return fmt.Sprintf(
		"✅ *Dados enviados ao aplicativo!*\n\n"+
			"▸ *Conta:* %s\n"+
			"▸ *Valor:* R$ %s\n"+
			"▸ *Categoria:* %s\n"+
			"▸ *Tipo:* %s",
		account.Name, draft.Amount.StringFixed(2), draft.Category, kindLabel(draft.Kind))
}

func transactionSavedMessage() string {
	return "✅ Transação concluída com sucesso!"
}

func transactionSaveFailedMessage() string {
	return "❌ Ocorreu um erro ao salvar a transação."
}

func incompleteDataMessage() string {
	return "❌ Dados incompletos para confirmar a transação. Por favor, inicie novamente."
}

func plainReplyMessage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return fmt.Sprintf("💡 *Resposta:*\n%s\n\nPrecisa de mais alguma coisa?", text)
}

func summaryMessage(income, expenses decimal.Decimal, count int) string {
	return fmt.Sprintf(
		"📊 *Resumo da sessão*\n\n"+
			"💰 Receitas: R$ %s\n"+
			"💸 Despesas: R$ %s\n"+
			"💵 Saldo: R$ %s\n"+
			"🧾 Transações: %d",
		income.StringFixed(2), expenses.StringFixed(2),
		income.Sub(expenses).StringFixed(2), count)
}

func emptySummaryMessage() string {
	return "🧾 Nenhuma transação registrada nesta sessão ainda."
}
