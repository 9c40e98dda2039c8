package utils

import "fmt"

func SendUnbilledReminderEmail(to, username, groupName, total string, count int) error {
	subject := fmt.Sprintf("%d unbilled expenses in '%s'", count, groupName)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Unbilled Expenses Reminder</title>
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; margin: 0; padding: 0; color: #333; }
		.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08); overflow: hidden; border-top: 5px solid #f0ad4e; }
		.header { background-color: #f0ad4e; color: #ffffff; text-align: center; padding: 18px 12px; }
		.header h1 { margin: 0; font-size: 18px; font-weight: 600; }
		.content { padding: 20px 18px; }
		.message { font-size: 14px; line-height: 1.6; color: #444; }
		.amount-box { background: #fdf8f0; border: 1px solid #f1dcc1; border-radius: 8px; padding: 12px 14px; margin: 16px 0; text-align: center; font-size: 18px; font-weight: 600; }
		.footer { text-align: center; font-size: 12px; color: #999; padding: 14px; }
	</style>
	</head>
	<body>
	<div class="container">
		<div class="header"><h1>Time to settle up?</h1></div>
		<div class="content">
			<p class="message">Hi %s,</p>
			<p class="message"><strong>%s</strong> has %d expenses that have not been
			collected into a bill yet. Issue a bill to settle them.</p>
			<div class="amount-box">Outstanding total: %s</div>
		</div>
		<div class="footer">houseledger &middot; shared household bookkeeping</div>
	</div>
	</body>
	</html>`, username, groupName, count, total)

	return SendEmail(to, subject, body)
}
