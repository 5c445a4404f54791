package email

const subjectWelcome = "Welcome aboard"
