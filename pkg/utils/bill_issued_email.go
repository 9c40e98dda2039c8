package utils

import (
	"fmt"
	"time"
)

func SendBillIssuedEmail(to, username, billNo, groupName, total string, issuedAt time.Time) error {
	subject := fmt.Sprintf("Bill #%s has been issued for '%s'", billNo, groupName)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Bill Issued</title>
	<style>
		body { font-family: 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f6f8f7; margin: 0; padding: 0; color: #333; }
		.container { max-width: 480px; margin: 25px auto; background: #ffffff; border-radius: 12px; box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08); overflow: hidden; border-top: 5px solid #3c763d; }
		.header { background-color: #3c763d; color: #ffffff; text-align: center; padding: 18px 12px; }
		.header h1 { margin: 0; font-size: 18px; font-weight: 600; }
		.content { padding: 20px 18px; }
		.message { font-size: 14px; line-height: 1.6; color: #444; }
		.amount-box { background: #f3faf3; border: 1px solid #c6e0c6; border-radius: 8px; padding: 12px 14px; margin: 16px 0; text-align: center; font-size: 18px; font-weight: 600; }
		.footer { text-align: center; font-size: 12px; color: #999; padding: 14px; }
	</style>
	</head>
	<body>
	<div class="container">
		<div class="header"><h1>Bill #%s issued</h1></div>
		<div class="content">
			<p class="message">Hi %s,</p>
			<p class="message">The open expenses of <strong>%s</strong> were collected into bill
			<strong>#%s</strong> on %s. Log in to see your balance for this settlement.</p>
			<div class="amount-box">Total: %s</div>
		</div>
		<div class="footer">houseledger &middot; shared household bookkeeping</div>
	</div>
	</body>
	</html>`, billNo, username, groupName, billNo, issuedAt.Format("02 Jan 2006"), total)

	return SendEmail(to, subject, body)
}
